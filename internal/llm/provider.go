package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vgauthier/recevo/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate runs one completion for the given request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one LLM completion
type GenerateRequest struct {
	// Prompt is the full user prompt
	Prompt string

	// System is the system instruction (optional)
	System string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the LLM's output
type GenerateResponse struct {
	// Text is the raw completion text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// MaxPromptChars bounds how much claim text goes into the prompt
	MaxPromptChars int

	// RateLimit caps generation requests per second (0 = unlimited)
	RateLimit float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		MaxTokens:      500,
		MaxPromptChars: 1500,
	}
}

// systemPrompt frames the model as a screening assistant that proposes,
// never decides
const systemPrompt = "Tu es un assistant juridique qui analyse la recevabilité de réclamations CSPE. " +
	"Tu proposes une classification provisoire destinée à un examen humain. " +
	"Tu réponds uniquement avec l'objet JSON demandé, sans texte autour."

// BuildPrompt constructs the classification prompt: the four criteria
// with their statutory thresholds, the exact JSON schema expected back,
// any caller-supplied metadata, and a bounded excerpt of the claim text.
func BuildPrompt(text string, meta model.ClaimMetadata, rules model.RulesConfig, maxChars int) string {
	if maxChars > 0 && len(text) > maxChars {
		cut := maxChars
		// Back off to a rune boundary so the excerpt stays valid UTF-8
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Analyse la réclamation CSPE ci-dessous selon quatre critères de recevabilité :

1. deadline : la réclamation doit être déposée dans les %d jours suivant la décision contestée.
2. period_coverage : les années contestées doivent être comprises entre %d et %d.
3. prescription : le fait générateur doit dater de moins de %d ans (prescription quadriennale), date de référence %s.
4. cost_pass_through : la charge ne doit pas avoir été répercutée sur le client final.

Chaque critère vaut "compliant", "non_compliant" ou "indeterminate".
La décision vaut "admissible" (tous conformes), "inadmissible" (au moins un non conforme) ou "needs_instruction" (sinon).

Réponds uniquement avec cet objet JSON :
{"decision": "...", "deadline": "...", "period_coverage": "...", "prescription": "...", "cost_pass_through": "...", "confidence": 0-100, "rationale": "une phrase"}
`,
		rules.DeadlineDays,
		rules.EligiblePeriodStart, rules.EligiblePeriodEnd,
		rules.PrescriptionYears, rules.ReferenceTime().Format("2006-01-02"))

	if meta.Claimant != "" {
		fmt.Fprintf(&b, "\nRéclamant : %s", meta.Claimant)
	}
	if meta.Sector != "" {
		fmt.Fprintf(&b, "\nSecteur : %s", meta.Sector)
	}
	if meta.ClaimDate != nil {
		fmt.Fprintf(&b, "\nDate de dépôt : %s", meta.ClaimDate.Format("2006-01-02"))
	}
	if meta.HasPeriod() {
		fmt.Fprintf(&b, "\nPériode contestée : %d-%d", meta.PeriodStart, meta.PeriodEnd)
	}

	fmt.Fprintf(&b, "\n\nTexte de la réclamation :\n%s\n", text)

	return b.String()
}
