package model

import (
	"time"
)

// Config holds the full engine configuration. Every statutory
// threshold lives here as a named value injected at construction time
// rather than hardcoded in the evaluators.
type Config struct {
	Rules       RulesConfig       `yaml:"rules" json:"rules"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// RulesConfig carries the codified admissibility thresholds
type RulesConfig struct {
	// DeadlineDays is the statutory contestation window between the
	// contested decision and the claim
	DeadlineDays int `yaml:"deadline_days" json:"deadline_days"`

	// PrescriptionYears is the prescription window after the
	// triggering event (prescription quadriennale)
	PrescriptionYears int `yaml:"prescription_years" json:"prescription_years"`

	// EligiblePeriodStart/End bound the contestable years
	EligiblePeriodStart int `yaml:"eligible_period_start" json:"eligible_period_start"`
	EligiblePeriodEnd   int `yaml:"eligible_period_end" json:"eligible_period_end"`

	// MinBareAmount rejects amounts below this value when no financial
	// context surrounds them (stray digit suppression)
	MinBareAmount float64 `yaml:"min_bare_amount" json:"min_bare_amount"`

	// MaxAmount caps plausible monetary values
	MaxAmount float64 `yaml:"max_amount" json:"max_amount"`

	// ContextWindow is the number of bytes scanned before and after a
	// candidate match for context keywords
	ContextWindow int `yaml:"context_window" json:"context_window"`

	// ReferenceDate overrides "now" for deadline and prescription
	// checks (YYYY-MM-DD). Empty means the wall clock.
	ReferenceDate string `yaml:"reference_date,omitempty" json:"reference_date,omitempty"`
}

// ReferenceTime resolves the injected reference date, falling back to
// the wall clock when unset or unparsable
func (r RulesConfig) ReferenceTime() time.Time {
	if r.ReferenceDate != "" {
		if t, err := time.Parse("2006-01-02", r.ReferenceDate); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, r.ReferenceDate); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// LLMConfig configures the optional language-model classification path
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string `yaml:"provider" json:"provider"`

	Model   string `yaml:"model" json:"model"`
	APIKey  string `yaml:"-" json:"-"`
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Timeout for one generation call, in seconds
	Timeout int `yaml:"timeout" json:"timeout"`

	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// MaxPromptChars bounds how much claim text goes into the prompt
	MaxPromptChars int `yaml:"max_prompt_chars" json:"max_prompt_chars"`

	// RateLimit caps generation requests per second (0 = unlimited)
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`

	HTTPProxy  string `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// CacheConfig configures result memoization
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`

	// RatePerSecond throttles document throughput across the whole
	// batch, mainly to pace LLM providers (0 = unlimited)
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `yaml:"burst" json:"burst"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the statutory defaults for CSPE screening
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			DeadlineDays:        60,
			PrescriptionYears:   4,
			EligiblePeriodStart: 2009,
			EligiblePeriodEnd:   2015,
			MinBareAmount:       10,
			MaxAmount:           10_000_000,
			ContextWindow:       30,
		},
		LLM: LLMConfig{
			Provider:       "",
			Timeout:        30,
			MaxTokens:      500,
			MaxPromptChars: 1500,
		},
		Cache: CacheConfig{
			Enabled:   false,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
			Burst:   5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
