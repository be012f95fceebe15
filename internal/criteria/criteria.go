// Package criteria implements the four admissibility criteria applied
// to a CSPE reimbursement contestation: contestation deadline, eligible
// period coverage, prescription, and cost pass-through. Evaluators are
// pure: the clock comes from the injected reference date, never from
// the wall clock.
package criteria

import (
	"github.com/vgauthier/recevo/internal/model"
)

// Evaluator judges one admissibility criterion from the claim text,
// the extracted entities, and caller-supplied metadata
type Evaluator interface {
	Name() string
	Evaluate(text string, entities model.Bundle, meta model.ClaimMetadata) model.CriterionVerdict
}

// Confidence assigned to indeterminate verdicts when the inputs needed
// for the criterion are missing
const confMissingInput = 0.30

// All returns the four evaluators in the fixed priority order
func All(rules model.RulesConfig) []Evaluator {
	return []Evaluator{
		NewDeadline(rules),
		NewPeriodCoverage(rules),
		NewPrescription(rules),
		NewCostPassThrough(),
	}
}
