package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vgauthier/recevo/internal/model"
)

// Confidence assigned per criterion when the reply had to be read from
// free text instead of the JSON schema
const confFreeText = 0.50

// rationaleMaxLen bounds the rationale carried into the classification
const rationaleMaxLen = 500

// replySchema mirrors the JSON object the prompt asks for
type replySchema struct {
	Decision        string  `json:"decision"`
	Deadline        string  `json:"deadline"`
	PeriodCoverage  string  `json:"period_coverage"`
	Prescription    string  `json:"prescription"`
	CostPassThrough string  `json:"cost_pass_through"`
	Confidence      float64 `json:"confidence"`
	Rationale       string  `json:"rationale"`
}

// ParseStructured extracts the first JSON object from an LLM reply and
// converts it into a classification. The reply may wrap the object in
// prose or markdown fences; everything before the first '{' and after
// its matching '}' is ignored.
func ParseStructured(reply string) (model.Classification, error) {
	raw, err := firstJSONObject(reply)
	if err != nil {
		return model.Classification{}, err
	}

	var parsed replySchema
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.Classification{}, fmt.Errorf("decode reply: %w", err)
	}

	decision, err := parseDecision(parsed.Decision)
	if err != nil {
		return model.Classification{}, err
	}

	statuses := map[string]string{
		model.CriterionDeadline:        parsed.Deadline,
		model.CriterionPeriodCoverage:  parsed.PeriodCoverage,
		model.CriterionPrescription:    parsed.Prescription,
		model.CriterionCostPassThrough: parsed.CostPassThrough,
	}

	confidence := clampConfidence(parsed.Confidence / 100)
	rationale := truncate(strings.TrimSpace(parsed.Rationale), rationaleMaxLen)
	if rationale == "" {
		rationale = "classification proposée par le modèle de langage"
	}

	criteria := make([]model.CriterionVerdict, 0, len(model.CriterionOrder))
	for _, name := range model.CriterionOrder {
		status, err := parseStatus(statuses[name])
		if err != nil {
			return model.Classification{}, fmt.Errorf("criterion %s: %w", name, err)
		}
		criteria = append(criteria, model.CriterionVerdict{
			Criterion:   name,
			Status:      status,
			Explanation: rationale,
			Confidence:  confidence,
		})
	}

	return model.Classification{
		Decision:          decision,
		Criteria:          criteria,
		OverallConfidence: confidence,
		Rationale:         rationale,
		Engine:            "llm",
	}, nil
}

// ParseFreeText recovers a classification from a reply that did not
// contain usable JSON, by scanning for French decision vocabulary.
// Returns false when the reply carries no recognizable signal.
func ParseFreeText(reply string) (model.Classification, bool) {
	folded := strings.ToLower(reply)

	var decision model.Decision
	switch {
	case strings.Contains(folded, "irrecevable") || strings.Contains(folded, "rejet"):
		decision = model.DecisionInadmissible
	case strings.Contains(folded, "recevable"):
		decision = model.DecisionAdmissible
	case strings.Contains(folded, "instruction") || strings.Contains(folded, "compléter") || strings.Contains(folded, "completer"):
		decision = model.DecisionNeedsInstruction
	default:
		return model.Classification{}, false
	}

	criteria := make([]model.CriterionVerdict, 0, len(model.CriterionOrder))
	for _, name := range model.CriterionOrder {
		criteria = append(criteria, model.CriterionVerdict{
			Criterion:   name,
			Status:      freeTextStatus(folded, name),
			Explanation: "lecture en texte libre de la réponse du modèle",
			Confidence:  confFreeText,
		})
	}

	return model.Classification{
		Decision:          decision,
		Criteria:          criteria,
		OverallConfidence: confFreeText,
		Rationale:         truncate(strings.TrimSpace(reply), rationaleMaxLen),
		Engine:            "llm_freetext",
	}, true
}

// freeTextStatus guesses one criterion's status from decision-level
// vocabulary near its name; absent a mention it stays indeterminate
func freeTextStatus(folded, criterion string) model.CriterionStatus {
	idx := strings.Index(folded, criterion)
	if idx < 0 {
		return model.StatusIndeterminate
	}
	window := folded[idx:min(idx+120, len(folded))]
	switch {
	case strings.Contains(window, "non_compliant") || strings.Contains(window, "non conforme") || strings.Contains(window, "non respecté"):
		return model.StatusNonCompliant
	case strings.Contains(window, "compliant") || strings.Contains(window, "conforme") || strings.Contains(window, "respecté"):
		return model.StatusCompliant
	default:
		return model.StatusIndeterminate
	}
}

// firstJSONObject returns the first balanced {...} region of text,
// ignoring braces inside JSON strings
func firstJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in reply")
}

func parseDecision(s string) (model.Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admissible":
		return model.DecisionAdmissible, nil
	case "inadmissible":
		return model.DecisionInadmissible, nil
	case "needs_instruction":
		return model.DecisionNeedsInstruction, nil
	default:
		return "", fmt.Errorf("unknown decision %q", s)
	}
}

func parseStatus(s string) (model.CriterionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compliant":
		return model.StatusCompliant, nil
	case "non_compliant":
		return model.StatusNonCompliant, nil
	case "indeterminate":
		return model.StatusIndeterminate, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "…"
}
