package criteria

import (
	"fmt"

	"github.com/vgauthier/recevo/internal/model"
)

const confPrescription = 0.85

// Prescription checks the prescription quadriennale: the claim is
// time-barred when more than PrescriptionYears have passed since the
// triggering event, taken as the earliest date in the document.
type Prescription struct {
	rules model.RulesConfig
}

func NewPrescription(rules model.RulesConfig) *Prescription {
	return &Prescription{rules: rules}
}

func (p *Prescription) Name() string { return model.CriterionPrescription }

func (p *Prescription) Evaluate(text string, entities model.Bundle, meta model.ClaimMetadata) model.CriterionVerdict {
	trigger, ok := entities.EarliestDate()
	if !ok {
		return model.CriterionVerdict{
			Criterion:   model.CriterionPrescription,
			Status:      model.StatusIndeterminate,
			Explanation: "aucune date de fait générateur identifiée",
			Confidence:  confMissingInput,
		}
	}

	reference := p.rules.ReferenceTime()
	// The boundary day itself is still within the window
	limit := trigger.AddDate(p.rules.PrescriptionYears, 0, 0)

	details := map[string]interface{}{
		"trigger_date":       trigger.Format("2006-01-02"),
		"reference_date":     reference.Format("2006-01-02"),
		"prescription_limit": limit.Format("2006-01-02"),
		"prescription_years": p.rules.PrescriptionYears,
	}

	if daysBetween(reference, limit) >= 0 {
		return model.CriterionVerdict{
			Criterion: model.CriterionPrescription,
			Status:    model.StatusCompliant,
			Explanation: fmt.Sprintf("fait générateur du %s dans le délai de prescription de %d ans",
				trigger.Format("02/01/2006"), p.rules.PrescriptionYears),
			Confidence: confPrescription,
			Details:    details,
		}
	}

	return model.CriterionVerdict{
		Criterion: model.CriterionPrescription,
		Status:    model.StatusNonCompliant,
		Explanation: fmt.Sprintf("fait générateur du %s au-delà du délai de prescription de %d ans",
			trigger.Format("02/01/2006"), p.rules.PrescriptionYears),
		Confidence: confPrescription,
		Details:    details,
	}
}
