package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vgauthier/recevo/internal/cache"
	"github.com/vgauthier/recevo/internal/criteria"
	"github.com/vgauthier/recevo/internal/decide"
	"github.com/vgauthier/recevo/internal/extract"
	"github.com/vgauthier/recevo/internal/llm"
	"github.com/vgauthier/recevo/internal/model"
)

// Pipeline orchestrates the complete screening of one claim document:
// extraction, criterion evaluation, aggregation, and the optional
// LLM-assisted classification path.
type Pipeline struct {
	loader     *Loader
	extractor  *extract.Service
	evaluators []criteria.Evaluator
	classifier *llm.Classifier
	renderer   *Renderer
	store      cache.Cache
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	p := &Pipeline{
		loader:     NewLoader(0),
		extractor:  extract.NewService(cfg.Rules),
		evaluators: criteria.All(cfg.Rules),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}

	// Create the LLM classifier if a provider is configured; the rule
	// path stays the fallback either way
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		var err error
		provider, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
			provider = nil
		}
	}
	p.classifier = llm.NewClassifier(provider, llm.ConfigFromModel(cfg.LLM), cfg.Rules, ruleFallback{p})

	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		p.store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return p
}

// ruleFallback adapts the rule-based path to the classifier's fallback
// interface
type ruleFallback struct {
	p *Pipeline
}

func (f ruleFallback) Classify(text string, meta model.ClaimMetadata) model.Classification {
	bundle, normalized := f.p.extractor.Extract(text)
	return f.p.ruleClassify(normalized, bundle, meta)
}

// ruleClassify runs the four evaluators and aggregates their verdicts
func (p *Pipeline) ruleClassify(text string, entities model.Bundle, meta model.ClaimMetadata) model.Classification {
	verdicts := make([]model.CriterionVerdict, 0, len(p.evaluators))
	for _, evaluator := range p.evaluators {
		verdicts = append(verdicts, evaluator.Evaluate(text, entities, meta))
	}
	return decide.Aggregate(verdicts)
}

// Analyze screens one claim document. It is total: any input,
// including empty or binary garbage, yields a valid analysis. Given
// the same configuration and reference date the result is
// deterministic on the rule path.
func (p *Pipeline) Analyze(ctx context.Context, docID, text string, meta model.ClaimMetadata) *model.Analysis {
	bundle, normalized := p.extractor.Extract(text)

	if normalized == "" {
		return &model.Analysis{
			DocumentID:     docID,
			AnalyzedAt:     time.Now().UTC(),
			TextLength:     0,
			Entities:       model.Bundle{},
			Classification: model.IndeterminateClassification("document vide ou illisible"),
		}
	}

	if p.store != nil {
		if cached, ok := p.lookup(normalized, meta); ok {
			return cached
		}
	}

	var classification model.Classification
	var warnings []string
	if p.classifier != nil {
		classification, warnings = p.classifier.Classify(ctx, normalized, meta)
	} else {
		classification = p.ruleClassify(normalized, bundle, meta)
	}

	analysis := &model.Analysis{
		DocumentID:     docID,
		AnalyzedAt:     time.Now().UTC(),
		TextLength:     len(normalized),
		Entities:       bundle,
		Classification: classification,
		Warnings:       warnings,
	}

	if p.store != nil {
		p.remember(normalized, meta, analysis)
	}

	return analysis
}

// AnalyzeFile loads a claim document from disk and screens it
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string, meta model.ClaimMetadata) (*model.Analysis, error) {
	docID, text, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return p.Analyze(ctx, docID, text, meta), nil
}

// RenderAnalysis renders the analysis to the requested outputs
func (p *Pipeline) RenderAnalysis(analysis *model.Analysis, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(analysis, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(analysis, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(analysis)
	return nil
}

// lookup fetches a previous analysis for identical text and metadata
func (p *Pipeline) lookup(text string, meta model.ClaimMetadata) (*model.Analysis, bool) {
	data, ok := p.store.Get(cache.Key(text, meta))
	if !ok {
		return nil, false
	}
	var analysis model.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, false
	}
	return &analysis, true
}

// remember stores an analysis; cache failures only warn
func (p *Pipeline) remember(text string, meta model.ClaimMetadata, analysis *model.Analysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := p.store.Set(cache.Key(text, meta), data, p.config.Cache.DiskTTL); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
	}
}
