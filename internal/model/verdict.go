package model

// CriterionStatus is the outcome of one admissibility criterion
type CriterionStatus string

const (
	StatusCompliant     CriterionStatus = "compliant"
	StatusNonCompliant  CriterionStatus = "non_compliant"
	StatusIndeterminate CriterionStatus = "indeterminate"
)

// Criterion names, in the fixed evaluation and priority order
const (
	CriterionDeadline        = "deadline"
	CriterionPeriodCoverage  = "period_coverage"
	CriterionPrescription    = "prescription"
	CriterionCostPassThrough = "cost_pass_through"
)

// CriterionOrder is the fixed priority order used for evaluation and
// for naming the first failing criterion in an inadmissible decision
var CriterionOrder = []string{
	CriterionDeadline,
	CriterionPeriodCoverage,
	CriterionPrescription,
	CriterionCostPassThrough,
}

// CriterionVerdict is the outcome of evaluating one criterion.
// Details carries the transparent inputs behind the verdict
// (dates compared, days elapsed, years found) so a reviewer can
// retrace the decision.
type CriterionVerdict struct {
	Criterion   string                 `json:"criterion"`
	Status      CriterionStatus        `json:"status"`
	Explanation string                 `json:"explanation"`
	Confidence  float64                `json:"confidence"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Decision is the provisional admissibility outcome for a claim
type Decision string

const (
	DecisionAdmissible       Decision = "admissible"
	DecisionInadmissible     Decision = "inadmissible"
	DecisionNeedsInstruction Decision = "needs_instruction"
)

// Classification combines the four criterion verdicts into one
// provisional decision for later human review
type Classification struct {
	Decision          Decision           `json:"decision"`
	Criteria          []CriterionVerdict `json:"criteria"` // exactly 4, fixed order
	OverallConfidence float64            `json:"overall_confidence"`
	Rationale         string             `json:"rationale"`
	Engine            string             `json:"engine"` // rules, llm, llm_freetext
}

// Verdict returns the verdict for a named criterion, if present
func (c Classification) Verdict(criterion string) (CriterionVerdict, bool) {
	for _, v := range c.Criteria {
		if v.Criterion == criterion {
			return v, true
		}
	}
	return CriterionVerdict{}, false
}

// IndeterminateClassification is the deterministic result for empty or
// unusable input: needs_instruction with every criterion indeterminate.
func IndeterminateClassification(reason string) Classification {
	criteria := make([]CriterionVerdict, 0, len(CriterionOrder))
	for _, name := range CriterionOrder {
		criteria = append(criteria, CriterionVerdict{
			Criterion:   name,
			Status:      StatusIndeterminate,
			Explanation: reason,
			Confidence:  0,
		})
	}
	return Classification{
		Decision:          DecisionNeedsInstruction,
		Criteria:          criteria,
		OverallConfidence: 0,
		Rationale:         reason,
		Engine:            "rules",
	}
}
