package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vgauthier/recevo/internal/model"
)

func TestRenderer_JSON(t *testing.T) {
	p := NewPipeline(testConfig())
	analysis := p.Analyze(context.Background(), "claim-101", admissibleClaim, model.ClaimMetadata{})

	path := filepath.Join(t.TempDir(), "claim-101.json")
	if err := NewRenderer(true).RenderJSON(analysis, path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded model.Analysis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.DocumentID != "claim-101" {
		t.Errorf("Expected document ID claim-101, got %s", decoded.DocumentID)
	}
	if decoded.Classification.Decision != model.DecisionAdmissible {
		t.Errorf("Expected admissible in JSON output, got %s", decoded.Classification.Decision)
	}
	if len(decoded.Classification.Criteria) != 4 {
		t.Errorf("Expected 4 criteria in JSON output, got %d", len(decoded.Classification.Criteria))
	}
}

func TestRenderer_Markdown(t *testing.T) {
	p := NewPipeline(testConfig())
	analysis := p.Analyze(context.Background(), "claim-102", admissibleClaim, model.ClaimMetadata{})

	path := filepath.Join(t.TempDir(), "claim-102.md")
	if err := NewRenderer(true).RenderMarkdown(analysis, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	report := string(data)

	for _, want := range []string{
		"# Analyse de recevabilité — claim-102",
		"recevable",
		"| Critère |",
		"deadline",
		"cost_pass_through",
		"## Entités extraites",
		"Classification provisoire",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestRenderer_MarkdownWithoutFooter(t *testing.T) {
	p := NewPipeline(testConfig())
	analysis := p.Analyze(context.Background(), "claim-103", admissibleClaim, model.ClaimMetadata{})

	path := filepath.Join(t.TempDir(), "claim-103.md")
	if err := NewRenderer(false).RenderMarkdown(analysis, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Contains(string(data), "Généré le") {
		t.Error("Expected no footer when disabled")
	}
}
