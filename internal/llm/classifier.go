package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/vgauthier/recevo/internal/model"
)

// RuleFallback produces a deterministic rule-based classification when
// the language model path cannot be used
type RuleFallback interface {
	Classify(text string, meta model.ClaimMetadata) model.Classification
}

// Classifier runs the LLM-assisted classification path with a
// deterministic fallback. Classify is total: whatever the provider
// does - unreachable, timing out, returning garbage - the caller gets
// a valid classification, plus warnings describing what degraded.
type Classifier struct {
	provider Provider
	config   Config
	rules    model.RulesConfig
	fallback RuleFallback
	limiter  *rate.Limiter
}

// NewClassifier builds a classifier. Provider may be nil (LLM path
// disabled); fallback must not be.
func NewClassifier(provider Provider, config Config, rules model.RulesConfig, fallback RuleFallback) *Classifier {
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	return &Classifier{
		provider: provider,
		config:   config,
		rules:    rules,
		fallback: fallback,
		limiter:  limiter,
	}
}

// Classify returns a classification for the claim text, never an
// error. The Engine field records which path produced it: "llm",
// "llm_freetext", or "rules".
func (c *Classifier) Classify(ctx context.Context, text string, meta model.ClaimMetadata) (model.Classification, []string) {
	var warnings []string

	if c.provider == nil {
		return c.fallback.Classify(text, meta), nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			warnings = append(warnings, fmt.Sprintf("llm rate limiter: %v, falling back to rules", err))
			return c.fallback.Classify(text, meta), warnings
		}
	}

	req := GenerateRequest{
		Prompt:    BuildPrompt(text, meta, c.rules, c.config.MaxPromptChars),
		System:    systemPrompt,
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("llm provider %s: %v, falling back to rules", c.provider.Name(), err))
		return c.fallback.Classify(text, meta), warnings
	}

	classification, err := ParseStructured(resp.Text)
	if err == nil {
		return classification, warnings
	}
	warnings = append(warnings, fmt.Sprintf("llm reply not parseable as JSON: %v, trying free-text reading", err))

	if classification, ok := ParseFreeText(resp.Text); ok {
		return classification, warnings
	}
	warnings = append(warnings, "llm reply carried no recognizable signal, falling back to rules")

	return c.fallback.Classify(text, meta), warnings
}
