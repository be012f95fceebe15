package criteria

import (
	"fmt"
	"time"

	"github.com/vgauthier/recevo/internal/model"
)

const (
	confDeadlineKnownClaim   = 0.90 // claim date from metadata or extraction
	confDeadlineAssumedClaim = 0.75 // claim date assumed to be the reference date
)

// Deadline checks the statutory contestation window: the claim must be
// lodged within DeadlineDays of the contested decision.
type Deadline struct {
	rules model.RulesConfig
}

func NewDeadline(rules model.RulesConfig) *Deadline {
	return &Deadline{rules: rules}
}

func (d *Deadline) Name() string { return model.CriterionDeadline }

// Evaluate takes the earliest extracted date as the decision date. The
// claim date comes from metadata when supplied; otherwise the latest
// extracted date when at least two dates were found; otherwise the
// reference date (the claim is assumed to be under screening today).
func (d *Deadline) Evaluate(text string, entities model.Bundle, meta model.ClaimMetadata) model.CriterionVerdict {
	decisionDate, ok := entities.EarliestDate()
	if !ok {
		return model.CriterionVerdict{
			Criterion:   model.CriterionDeadline,
			Status:      model.StatusIndeterminate,
			Explanation: "aucune date de décision identifiée dans la réclamation",
			Confidence:  confMissingInput,
		}
	}

	claimDate, confidence := d.claimDate(entities, meta)
	elapsed := daysBetween(decisionDate, claimDate)

	details := map[string]interface{}{
		"decision_date": decisionDate.Format("2006-01-02"),
		"claim_date":    claimDate.Format("2006-01-02"),
		"days_elapsed":  elapsed,
		"limit_days":    d.rules.DeadlineDays,
	}

	if elapsed < 0 {
		return model.CriterionVerdict{
			Criterion:   model.CriterionDeadline,
			Status:      model.StatusIndeterminate,
			Explanation: "la date de réclamation précède la date de décision",
			Confidence:  confMissingInput,
			Details:     details,
		}
	}

	if elapsed <= d.rules.DeadlineDays {
		return model.CriterionVerdict{
			Criterion: model.CriterionDeadline,
			Status:    model.StatusCompliant,
			Explanation: fmt.Sprintf("réclamation déposée %d jours après la décision (délai de %d jours respecté)",
				elapsed, d.rules.DeadlineDays),
			Confidence: confidence,
			Details:    details,
		}
	}

	return model.CriterionVerdict{
		Criterion: model.CriterionDeadline,
		Status:    model.StatusNonCompliant,
		Explanation: fmt.Sprintf("réclamation déposée %d jours après la décision (délai de %d jours dépassé)",
			elapsed, d.rules.DeadlineDays),
		Confidence: confidence,
		Details:    details,
	}
}

// claimDate resolves the date the claim was lodged, with a confidence
// reflecting how it was obtained
func (d *Deadline) claimDate(entities model.Bundle, meta model.ClaimMetadata) (time.Time, float64) {
	if meta.ClaimDate != nil {
		return *meta.ClaimDate, confDeadlineKnownClaim
	}
	if len(entities.Dates) >= 2 {
		if latest, ok := entities.LatestDate(); ok {
			return latest, confDeadlineKnownClaim
		}
	}
	return d.rules.ReferenceTime(), confDeadlineAssumedClaim
}

// daysBetween counts whole calendar days from a to b, truncating both
// to midnight UTC so times of day cannot shift the count
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
