package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vgauthier/recevo/internal/model"
)

// Renderer writes analyses as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the analysis as indented JSON
func (r *Renderer) RenderJSON(analysis *model.Analysis, path string) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable screening report
func (r *Renderer) RenderMarkdown(analysis *model.Analysis, path string) error {
	var b strings.Builder

	c := analysis.Classification
	fmt.Fprintf(&b, "# Analyse de recevabilité — %s\n\n", analysis.DocumentID)
	fmt.Fprintf(&b, "**Décision provisoire** : %s  \n", decisionLabel(c.Decision))
	fmt.Fprintf(&b, "**Confiance** : %.0f%%  \n", c.OverallConfidence*100)
	fmt.Fprintf(&b, "**Moteur** : %s  \n", c.Engine)
	fmt.Fprintf(&b, "**Motivation** : %s\n\n", c.Rationale)

	b.WriteString("## Critères\n\n")
	b.WriteString("| Critère | Statut | Confiance | Explication |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, v := range c.Criteria {
		fmt.Fprintf(&b, "| %s | %s | %.0f%% | %s |\n",
			v.Criterion, statusLabel(v.Status), v.Confidence*100, v.Explanation)
	}

	b.WriteString("\n## Entités extraites\n\n")
	counts := analysis.EntityCounts()
	fmt.Fprintf(&b, "- Dates : %d\n- Montants : %d\n- Références : %d\n",
		counts["dates"], counts["amounts"], counts["references"])

	for _, e := range analysis.Entities.Dates {
		fmt.Fprintf(&b, "  - date %s (confiance %.2f, %s)\n", e.Value, e.Confidence, e.Source)
	}
	for _, e := range analysis.Entities.Amounts {
		fmt.Fprintf(&b, "  - montant %s (confiance %.2f, %s)\n", e.Value, e.Confidence, e.Source)
	}
	for _, e := range analysis.Entities.References {
		fmt.Fprintf(&b, "  - référence %s (%s)\n", e.Value, e.Kind)
	}

	if len(analysis.Warnings) > 0 {
		b.WriteString("\n## Avertissements\n\n")
		for _, w := range analysis.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\nGénéré le %s par recevo. Classification provisoire, à confirmer par un instructeur.\n",
			analysis.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(analysis *model.Analysis) {
	c := analysis.Classification
	fmt.Printf("\n%s — %s (confiance %.0f%%, moteur %s)\n",
		analysis.DocumentID, decisionLabel(c.Decision), c.OverallConfidence*100, c.Engine)
	for _, v := range c.Criteria {
		fmt.Printf("  %-18s %s\n", v.Criterion, statusLabel(v.Status))
	}
}

func decisionLabel(d model.Decision) string {
	switch d {
	case model.DecisionAdmissible:
		return "recevable"
	case model.DecisionInadmissible:
		return "irrecevable"
	default:
		return "instruction complémentaire"
	}
}

func statusLabel(s model.CriterionStatus) string {
	switch s {
	case model.StatusCompliant:
		return "conforme"
	case model.StatusNonCompliant:
		return "non conforme"
	default:
		return "indéterminé"
	}
}
