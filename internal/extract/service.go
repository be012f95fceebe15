package extract

import (
	"github.com/vgauthier/recevo/internal/model"
)

// Service runs every extractor over a document and assembles the
// entity bundle the criteria evaluators consume
type Service struct {
	dates      *DateExtractor
	amounts    *AmountExtractor
	references *ReferenceExtractor
}

// NewService builds the extraction service from the rule configuration
func NewService(rules model.RulesConfig) *Service {
	return &Service{
		dates:      NewDateExtractor(rules.ContextWindow),
		amounts:    NewAmountExtractor(rules),
		references: NewReferenceExtractor(),
	}
}

// Extract normalizes text and runs all extractors over it. The
// returned bundle's spans refer to the normalized text, which is also
// returned so callers can display matched regions.
func (s *Service) Extract(text string) (model.Bundle, string) {
	normalized := Normalize(text)
	if normalized == "" {
		return model.Bundle{}, ""
	}

	dates := s.dates.Extract(normalized)
	amounts := dropOverlapping(s.amounts.Extract(normalized), dates)

	return model.Bundle{
		Dates:      dates,
		Amounts:    amounts,
		References: s.references.Extract(normalized),
	}, normalized
}

// dropOverlapping removes entities whose span intersects any of the
// given spans. A number inside a date ("le 15 mars 2023") is a date
// component, not an amount.
func dropOverlapping(entities, spans []model.Entity) []model.Entity {
	if len(entities) == 0 || len(spans) == 0 {
		return entities
	}
	kept := entities[:0]
	for _, e := range entities {
		overlaps := false
		for _, s := range spans {
			if e.Overlaps(s) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, e)
		}
	}
	return kept
}
