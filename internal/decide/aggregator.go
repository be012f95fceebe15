// Package decide combines the four criterion verdicts into one
// provisional admissibility decision.
package decide

import (
	"fmt"

	"github.com/vgauthier/recevo/internal/model"
)

// Aggregate applies the decision table: any non_compliant criterion
// makes the claim inadmissible, with the rationale naming the first
// failing criterion in the fixed priority order; all compliant makes it
// admissible; any other mix needs instruction. Overall confidence is
// the minimum of the four criterion confidences, weakest link first.
func Aggregate(verdicts []model.CriterionVerdict) model.Classification {
	ordered := orderVerdicts(verdicts)

	decision := model.DecisionAdmissible
	rationale := "les quatre critères de recevabilité sont satisfaits"

	for _, v := range ordered {
		if v.Status == model.StatusNonCompliant {
			decision = model.DecisionInadmissible
			rationale = fmt.Sprintf("critère %s non satisfait : %s", v.Criterion, v.Explanation)
			break
		}
	}

	if decision == model.DecisionAdmissible {
		for _, v := range ordered {
			if v.Status != model.StatusCompliant {
				decision = model.DecisionNeedsInstruction
				rationale = fmt.Sprintf("critère %s indéterminé : %s", v.Criterion, v.Explanation)
				break
			}
		}
	}

	return model.Classification{
		Decision:          decision,
		Criteria:          ordered,
		OverallConfidence: minConfidence(ordered),
		Rationale:         rationale,
		Engine:            "rules",
	}
}

// orderVerdicts arranges verdicts in the fixed criterion order,
// filling any missing criterion with an indeterminate placeholder so
// the classification always carries exactly four entries
func orderVerdicts(verdicts []model.CriterionVerdict) []model.CriterionVerdict {
	byName := make(map[string]model.CriterionVerdict, len(verdicts))
	for _, v := range verdicts {
		byName[v.Criterion] = v
	}

	ordered := make([]model.CriterionVerdict, 0, len(model.CriterionOrder))
	for _, name := range model.CriterionOrder {
		if v, ok := byName[name]; ok {
			ordered = append(ordered, v)
			continue
		}
		ordered = append(ordered, model.CriterionVerdict{
			Criterion:   name,
			Status:      model.StatusIndeterminate,
			Explanation: "critère non évalué",
			Confidence:  0,
		})
	}
	return ordered
}

func minConfidence(verdicts []model.CriterionVerdict) float64 {
	min := 1.0
	for _, v := range verdicts {
		if v.Confidence < min {
			min = v.Confidence
		}
	}
	return min
}
