package decide

import (
	"strings"
	"testing"

	"github.com/vgauthier/recevo/internal/model"
)

func verdict(criterion string, status model.CriterionStatus, confidence float64) model.CriterionVerdict {
	return model.CriterionVerdict{
		Criterion:   criterion,
		Status:      status,
		Explanation: "test",
		Confidence:  confidence,
	}
}

func allCompliant() []model.CriterionVerdict {
	return []model.CriterionVerdict{
		verdict(model.CriterionDeadline, model.StatusCompliant, 0.90),
		verdict(model.CriterionPeriodCoverage, model.StatusCompliant, 0.95),
		verdict(model.CriterionPrescription, model.StatusCompliant, 0.85),
		verdict(model.CriterionCostPassThrough, model.StatusCompliant, 0.85),
	}
}

func TestAggregate_AllCompliantAdmissible(t *testing.T) {
	c := Aggregate(allCompliant())

	if c.Decision != model.DecisionAdmissible {
		t.Fatalf("Expected admissible, got %s", c.Decision)
	}
	if len(c.Criteria) != 4 {
		t.Errorf("Expected 4 criteria, got %d", len(c.Criteria))
	}
	if c.OverallConfidence != 0.85 {
		t.Errorf("Expected minimum confidence 0.85, got %.2f", c.OverallConfidence)
	}
	if c.Engine != "rules" {
		t.Errorf("Expected rules engine, got %s", c.Engine)
	}
}

func TestAggregate_AnyNonCompliantInadmissible(t *testing.T) {
	verdicts := allCompliant()
	verdicts[2] = verdict(model.CriterionPrescription, model.StatusNonCompliant, 0.85)

	c := Aggregate(verdicts)
	if c.Decision != model.DecisionInadmissible {
		t.Fatalf("Expected inadmissible, got %s", c.Decision)
	}
	if !strings.Contains(c.Rationale, model.CriterionPrescription) {
		t.Errorf("Expected rationale to name prescription, got %q", c.Rationale)
	}
}

func TestAggregate_RationaleNamesFirstFailingCriterion(t *testing.T) {
	verdicts := allCompliant()
	verdicts[1] = verdict(model.CriterionPeriodCoverage, model.StatusNonCompliant, 0.80)
	verdicts[3] = verdict(model.CriterionCostPassThrough, model.StatusNonCompliant, 0.85)

	c := Aggregate(verdicts)
	if !strings.Contains(c.Rationale, model.CriterionPeriodCoverage) {
		t.Errorf("Expected first failure (period_coverage) in rationale, got %q", c.Rationale)
	}
	if strings.Contains(c.Rationale, model.CriterionCostPassThrough) {
		t.Errorf("Expected later failure omitted from rationale, got %q", c.Rationale)
	}
}

func TestAggregate_IndeterminateNeedsInstruction(t *testing.T) {
	verdicts := allCompliant()
	verdicts[3] = verdict(model.CriterionCostPassThrough, model.StatusIndeterminate, 0.40)

	c := Aggregate(verdicts)
	if c.Decision != model.DecisionNeedsInstruction {
		t.Fatalf("Expected needs_instruction, got %s", c.Decision)
	}
	if c.OverallConfidence != 0.40 {
		t.Errorf("Expected minimum confidence 0.40, got %.2f", c.OverallConfidence)
	}
}

func TestAggregate_NonCompliantBeatsIndeterminate(t *testing.T) {
	verdicts := allCompliant()
	verdicts[0] = verdict(model.CriterionDeadline, model.StatusIndeterminate, 0.30)
	verdicts[2] = verdict(model.CriterionPrescription, model.StatusNonCompliant, 0.85)

	c := Aggregate(verdicts)
	if c.Decision != model.DecisionInadmissible {
		t.Errorf("Expected inadmissible, got %s", c.Decision)
	}
}

func TestAggregate_MissingCriterionFilledIndeterminate(t *testing.T) {
	verdicts := allCompliant()[:3]

	c := Aggregate(verdicts)
	if len(c.Criteria) != 4 {
		t.Fatalf("Expected 4 criteria, got %d", len(c.Criteria))
	}
	if c.Criteria[3].Criterion != model.CriterionCostPassThrough {
		t.Errorf("Expected cost_pass_through placeholder, got %s", c.Criteria[3].Criterion)
	}
	if c.Criteria[3].Status != model.StatusIndeterminate {
		t.Errorf("Expected indeterminate placeholder, got %s", c.Criteria[3].Status)
	}
	if c.Decision != model.DecisionNeedsInstruction {
		t.Errorf("Expected needs_instruction, got %s", c.Decision)
	}
}

func TestAggregate_OrderIsCanonical(t *testing.T) {
	verdicts := allCompliant()
	// Feed verdicts shuffled; output order must not change
	shuffled := []model.CriterionVerdict{verdicts[3], verdicts[1], verdicts[0], verdicts[2]}

	c := Aggregate(shuffled)
	for i, v := range c.Criteria {
		if v.Criterion != model.CriterionOrder[i] {
			t.Errorf("Position %d: expected %s, got %s", i, model.CriterionOrder[i], v.Criterion)
		}
	}
}
