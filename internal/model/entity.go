package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType categorizes an extracted entity
type EntityType string

const (
	EntityDate      EntityType = "date"
	EntityAmount    EntityType = "amount"
	EntityReference EntityType = "reference"
)

// ReferenceKind classifies a structured reference
type ReferenceKind string

const (
	ReferenceInvoice ReferenceKind = "invoice"
	ReferenceOrder   ReferenceKind = "order"
	ReferenceClient  ReferenceKind = "client"
)

// Entity represents a single entity extracted from claim text.
// Value always holds the normalized form (ISO date, plain decimal,
// identifier); the typed fields carry the parsed payload for the
// matching Type.
type Entity struct {
	Type       EntityType      `json:"type"`
	Value      string          `json:"value"`                // normalized form
	Confidence float64         `json:"confidence"`           // [0,1]
	Start      int             `json:"start"`                // byte offset in normalized text
	End        int             `json:"end"`                  // byte offset past the match
	Source     string          `json:"source,omitempty"`     // pattern family / context tag
	Date       time.Time       `json:"-"`                    // set when Type == date
	Amount     decimal.Decimal `json:"-"`                    // set when Type == amount
	Kind       ReferenceKind   `json:"kind,omitempty"`       // set when Type == reference
}

// Overlaps reports whether two spans intersect
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

// Bundle groups the entities extracted from one claim text.
// It is constructed fresh per analysis call and not mutated afterwards.
type Bundle struct {
	Dates      []Entity `json:"dates"`
	Amounts    []Entity `json:"amounts"`
	References []Entity `json:"references"`
}

// EarliestDate returns the earliest extracted date, or zero time
func (b Bundle) EarliestDate() (time.Time, bool) {
	var earliest time.Time
	for _, e := range b.Dates {
		if earliest.IsZero() || e.Date.Before(earliest) {
			earliest = e.Date
		}
	}
	return earliest, !earliest.IsZero()
}

// LatestDate returns the latest extracted date, or zero time
func (b Bundle) LatestDate() (time.Time, bool) {
	var latest time.Time
	for _, e := range b.Dates {
		if e.Date.After(latest) {
			latest = e.Date
		}
	}
	return latest, !latest.IsZero()
}

// ReferencesOfKind filters references by kind, preserving order
func (b Bundle) ReferencesOfKind(kind ReferenceKind) []Entity {
	var out []Entity
	for _, e := range b.References {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
