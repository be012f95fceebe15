package extract

import (
	"regexp"
	"strings"

	"github.com/vgauthier/recevo/internal/model"
)

const confReference = 0.90

// ReferenceExtractor finds invoice, order, and client identifiers.
// Each pattern anchors on a French label (facture, commande, client)
// followed by an identifier made of letters, digits, dashes and
// slashes. The identifier alone is captured as the entity span.
type ReferenceExtractor struct {
	patterns []referencePattern
}

type referencePattern struct {
	kind model.ReferenceKind
	re   *regexp.Regexp
}

// Identifier shape shared by every label family. Must contain at least
// one digit and be at least three characters long; both checks happen
// after matching so the pattern itself stays simple.
const refID = `([A-Za-z0-9][A-Za-z0-9/\-]{1,30})`

// NewReferenceExtractor compiles the reference patterns once
func NewReferenceExtractor() *ReferenceExtractor {
	label := func(words string) string {
		return `(?i)\b(?:` + words + `)\s*(?:n°|n\s*°|no\.?|num[ée]ro)?\s*:?\s*` + refID
	}
	return &ReferenceExtractor{
		patterns: []referencePattern{
			{model.ReferenceInvoice, regexp.MustCompile(label(`facture|fact\.?`))},
			{model.ReferenceOrder, regexp.MustCompile(label(`commande|cde\.?|bon de commande`))},
			{model.ReferenceClient, regexp.MustCompile(label(`client|compte client|r[ée]f[ée]rence client`))},
		},
	}
}

// Extract returns the document references found in text, ordered by
// position. Identifiers shorter than three characters or without any
// digit are rejected as label noise.
func (e *ReferenceExtractor) Extract(text string) []model.Entity {
	var candidates []model.Entity

	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			id := text[start:end]
			if !validIdentifier(id) {
				continue
			}
			candidates = append(candidates, model.Entity{
				Type:       model.EntityReference,
				Value:      id,
				Confidence: confReference,
				Start:      start,
				End:        end,
				Source:     string(p.kind),
				Kind:       p.kind,
			})
		}
	}

	return dedupeBySpan(candidates)
}

// validIdentifier rejects matches that are all letters (the next word
// of the sentence rather than a reference) or too short to identify
// anything
func validIdentifier(id string) bool {
	if len(id) < 3 {
		return false
	}
	return strings.ContainsAny(id, "0123456789")
}
