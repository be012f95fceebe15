package criteria

import (
	"testing"

	"github.com/vgauthier/recevo/internal/model"
)

func TestPeriodCoverage_MetadataBounds(t *testing.T) {
	evaluator := NewPeriodCoverage(testRules())

	verdict := evaluator.Evaluate("", model.Bundle{}, model.ClaimMetadata{
		PeriodStart: 2012,
		PeriodEnd:   2014,
	})
	if verdict.Status != model.StatusCompliant {
		t.Fatalf("Expected compliant, got %s (%s)", verdict.Status, verdict.Explanation)
	}
	if !closeTo(verdict.Confidence, 0.95) {
		t.Errorf("Expected metadata confidence 0.95, got %.2f", verdict.Confidence)
	}
}

func TestPeriodCoverage_MetadataOutsideEligiblePeriod(t *testing.T) {
	evaluator := NewPeriodCoverage(testRules())

	verdict := evaluator.Evaluate("", model.Bundle{}, model.ClaimMetadata{
		PeriodStart: 2014,
		PeriodEnd:   2017,
	})
	if verdict.Status != model.StatusNonCompliant {
		t.Fatalf("Expected non_compliant, got %s (%s)", verdict.Status, verdict.Explanation)
	}
}

func TestPeriodCoverage_YearsFromText(t *testing.T) {
	evaluator := NewPeriodCoverage(testRules())

	cases := []struct {
		name   string
		text   string
		status model.CriterionStatus
	}{
		{"single_year", "CSPE acquittée au titre de l'année 2014.", model.StatusCompliant},
		{"exercice", "au cours de l'exercice 2013", model.StatusCompliant},
		{"range", "pour la période 2012-2014", model.StatusCompliant},
		{"range_a", "pour la période 2012 à 2014", model.StatusCompliant},
		{"pair", "au titre des années 2013 et 2014", model.StatusCompliant},
		{"outside_before", "au titre de l'année 2008", model.StatusNonCompliant},
		{"outside_after", "au titre de l'année 2016", model.StatusNonCompliant},
		{"range_straddles", "pour la période 2014 à 2016", model.StatusNonCompliant},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := evaluator.Evaluate(tc.text, model.Bundle{}, model.ClaimMetadata{})
			if verdict.Status != tc.status {
				t.Errorf("Expected %s, got %s (%s)", tc.status, verdict.Status, verdict.Explanation)
			}
		})
	}
}

func TestPeriodCoverage_BareYearWithoutContextIgnored(t *testing.T) {
	evaluator := NewPeriodCoverage(testRules())

	// A date or reference year without period vocabulary is not a
	// contested year
	verdict := evaluator.Evaluate("Décision du 01/01/2023 notifiée.", model.Bundle{}, model.ClaimMetadata{})
	if verdict.Status != model.StatusIndeterminate {
		t.Errorf("Expected indeterminate, got %s (%s)", verdict.Status, verdict.Explanation)
	}
}

func TestPeriodCoverage_NoYearsIndeterminate(t *testing.T) {
	evaluator := NewPeriodCoverage(testRules())

	verdict := evaluator.Evaluate("réclamation sans précision de période", model.Bundle{}, model.ClaimMetadata{})
	if verdict.Status != model.StatusIndeterminate {
		t.Errorf("Expected indeterminate, got %s", verdict.Status)
	}
	if !closeTo(verdict.Confidence, confMissingInput) {
		t.Errorf("Expected reduced confidence, got %.2f", verdict.Confidence)
	}
}
