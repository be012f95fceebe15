package criteria

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/vgauthier/recevo/internal/extract"
	"github.com/vgauthier/recevo/internal/model"
)

const (
	confPeriodMetadata = 0.95 // years supplied by the caller
	confPeriodText     = 0.80 // years mined from period vocabulary
)

// PeriodCoverage checks that every contested year falls inside the
// eligible CSPE period. Years come from caller metadata when supplied,
// otherwise from period-context year mentions in the text ("année
// 2014", "exercice 2013", "au titre de la période 2012-2014").
type PeriodCoverage struct {
	rules model.RulesConfig

	// year or year range following period vocabulary
	mention *regexp.Regexp
}

func NewPeriodCoverage(rules model.RulesConfig) *PeriodCoverage {
	return &PeriodCoverage{
		rules: rules,
		mention: regexp.MustCompile(
			`(?:annee|exercice|periode|au titre de)[^\n.;]{0,40}?\b(20\d{2})(?:\s*(?:-|a|au|et)\s*(20\d{2}))?\b`),
	}
}

func (p *PeriodCoverage) Name() string { return model.CriterionPeriodCoverage }

func (p *PeriodCoverage) Evaluate(text string, entities model.Bundle, meta model.ClaimMetadata) model.CriterionVerdict {
	years, source := p.contestedYears(text, meta)
	if len(years) == 0 {
		return model.CriterionVerdict{
			Criterion:   model.CriterionPeriodCoverage,
			Status:      model.StatusIndeterminate,
			Explanation: "aucune année contestée identifiée",
			Confidence:  confMissingInput,
		}
	}

	confidence := confPeriodText
	if source == "metadata" {
		confidence = confPeriodMetadata
	}

	details := map[string]interface{}{
		"years":        years,
		"years_source": source,
		"period_start": p.rules.EligiblePeriodStart,
		"period_end":   p.rules.EligiblePeriodEnd,
	}

	var outside []int
	for _, y := range years {
		if y < p.rules.EligiblePeriodStart || y > p.rules.EligiblePeriodEnd {
			outside = append(outside, y)
		}
	}

	if len(outside) > 0 {
		return model.CriterionVerdict{
			Criterion: model.CriterionPeriodCoverage,
			Status:    model.StatusNonCompliant,
			Explanation: fmt.Sprintf("années contestées hors période éligible %d-%d : %v",
				p.rules.EligiblePeriodStart, p.rules.EligiblePeriodEnd, outside),
			Confidence: confidence,
			Details:    details,
		}
	}

	return model.CriterionVerdict{
		Criterion: model.CriterionPeriodCoverage,
		Status:    model.StatusCompliant,
		Explanation: fmt.Sprintf("années contestées %v dans la période éligible %d-%d",
			years, p.rules.EligiblePeriodStart, p.rules.EligiblePeriodEnd),
		Confidence: confidence,
		Details:    details,
	}
}

// contestedYears resolves the years under contest and names where they
// came from. Metadata bounds expand into every year of the range.
func (p *PeriodCoverage) contestedYears(text string, meta model.ClaimMetadata) ([]int, string) {
	if meta.HasPeriod() {
		var years []int
		for y := meta.PeriodStart; y <= meta.PeriodEnd; y++ {
			years = append(years, y)
		}
		return years, "metadata"
	}

	seen := map[int]bool{}
	for _, m := range p.mention.FindAllStringSubmatch(extract.Fold(text), -1) {
		from, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		to := from
		if m[2] != "" {
			if v, err := strconv.Atoi(m[2]); err == nil && v >= from && v-from <= 20 {
				to = v
			}
		}
		for y := from; y <= to; y++ {
			seen[y] = true
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, "text"
}
