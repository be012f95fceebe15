package criteria

import (
	"fmt"
	"regexp"

	"github.com/vgauthier/recevo/internal/extract"
	"github.com/vgauthier/recevo/internal/model"
)

const (
	confPassThroughIndicator = 0.85
	confPassThroughAbsent    = 0.40 // absence of evidence is not evidence of absence
)

// indicator pairs a display label with its pattern. Patterns run on
// folded text and tolerate gender and number agreement of the French
// participles ("répercuté", "répercutées", ...).
type indicator struct {
	label string
	re    *regexp.Regexp
}

// CostPassThrough checks whether the claimant bore the contested charge
// or passed it on to end customers. A passed-on charge disqualifies the
// claim. Negative indicators take precedence when both polarities
// appear in the same document.
type CostPassThrough struct {
	negative []indicator
	positive []indicator
}

func NewCostPassThrough() *CostPassThrough {
	return &CostPassThrough{
		negative: []indicator{
			{"non répercuté", regexp.MustCompile(`non repercutee?s?`)},
			{"pas été répercuté", regexp.MustCompile(`pas ete repercutee?s?`)},
			{"à notre charge", regexp.MustCompile(`a notre charge`)},
			{"supporté par", regexp.MustCompile(`supportee?s? par`)},
			{"absorbé", regexp.MustCompile(`absorbee?s?`)},
			{"sans répercussion", regexp.MustCompile(`sans repercussion`)},
		},
		positive: []indicator{
			{"répercuté sur le client", regexp.MustCompile(`repercutee?s? sur (?:le|les|ses) clients?`)},
			{"facturé au client final", regexp.MustCompile(`facturee?s? aux? clients? final`)},
			{"refacturé au client", regexp.MustCompile(`refacturee?s? aux? clients?`)},
			{"répercussion sur le client", regexp.MustCompile(`repercussion sur (?:le|les|ses) clients?`)},
		},
	}
}

func (c *CostPassThrough) Name() string { return model.CriterionCostPassThrough }

func (c *CostPassThrough) Evaluate(text string, entities model.Bundle, meta model.ClaimMetadata) model.CriterionVerdict {
	folded := extract.Fold(text)

	if ind, ok := matchIndicator(folded, c.negative); ok {
		return model.CriterionVerdict{
			Criterion:   model.CriterionCostPassThrough,
			Status:      model.StatusCompliant,
			Explanation: fmt.Sprintf("charge non répercutée selon la réclamation (« %s »)", ind.label),
			Confidence:  confPassThroughIndicator,
			Details:     map[string]interface{}{"indicator": ind.label, "polarity": "negative"},
		}
	}

	if ind, ok := matchIndicator(folded, c.positive); ok {
		return model.CriterionVerdict{
			Criterion:   model.CriterionCostPassThrough,
			Status:      model.StatusNonCompliant,
			Explanation: fmt.Sprintf("charge répercutée sur le client final selon la réclamation (« %s »)", ind.label),
			Confidence:  confPassThroughIndicator,
			Details:     map[string]interface{}{"indicator": ind.label, "polarity": "positive"},
		}
	}

	return model.CriterionVerdict{
		Criterion:   model.CriterionCostPassThrough,
		Status:      model.StatusIndeterminate,
		Explanation: "aucune indication sur la répercussion de la charge",
		Confidence:  confPassThroughAbsent,
	}
}

func matchIndicator(folded string, indicators []indicator) (indicator, bool) {
	for _, ind := range indicators {
		if ind.re.MatchString(folded) {
			return ind, true
		}
	}
	return indicator{}, false
}
