package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vgauthier/recevo/internal/model"
)

// Base confidence per date pattern family. ISO dates are unambiguous;
// numeric day-first dates can in principle be misread; long-form dates
// depend on a month table and sometimes on OCR quality.
const (
	confDateNumeric  = 0.90
	confDateISO      = 0.95
	confDateLongForm = 0.85

	// contextDateBoost is added when a legal/administrative keyword
	// appears near the match
	contextDateBoost = 0.05
)

// DateExtractor finds calendar dates in claim text. Numeric dates are
// parsed day-first; two-digit years are rejected rather than guessed.
type DateExtractor struct {
	numeric       *regexp.Regexp
	iso           *regexp.Regexp
	longForm      *regexp.Regexp
	months        map[string]time.Month
	contextWords  []string
	contextWindow int
}

// NewDateExtractor compiles the date patterns once
func NewDateExtractor(contextWindow int) *DateExtractor {
	months := map[string]time.Month{
		"janvier": time.January, "fevrier": time.February, "février": time.February,
		"mars": time.March, "avril": time.April, "mai": time.May, "juin": time.June,
		"juillet": time.July, "aout": time.August, "août": time.August,
		"septembre": time.September, "octobre": time.October,
		"novembre": time.November, "decembre": time.December, "décembre": time.December,
	}

	monthNames := make([]string, 0, len(months))
	for name := range months {
		monthNames = append(monthNames, name)
	}
	sort.Strings(monthNames)

	return &DateExtractor{
		numeric: regexp.MustCompile(`\b(0?[1-9]|[12][0-9]|3[01])[/.\-](0?[1-9]|1[0-2])[/.\-](20\d{2})\b`),
		iso:     regexp.MustCompile(`\b(20\d{2})[/.\-](0?[1-9]|1[0-2])[/.\-](0?[1-9]|[12][0-9]|3[01])\b`),
		longForm: regexp.MustCompile(
			`(?i)\b(0?[1-9]|[12][0-9]|3[01])(?:er)?\s+(` + strings.Join(monthNames, "|") + `)\s+(20\d{2})\b`),
		months: months,
		contextWords: []string{
			"décision", "decision", "réclamation", "reclamation",
			"courrier", "notification", "facture", "échéance", "echeance",
		},
		contextWindow: contextWindow,
	}
}

// Extract returns every valid date found in text, ordered by position,
// with overlapping candidates reduced to the highest-confidence one.
// Candidates that fail calendar validation are silently discarded.
func (e *DateExtractor) Extract(text string) []model.Entity {
	var candidates []model.Entity

	for _, m := range e.numeric.FindAllStringSubmatchIndex(text, -1) {
		day := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		year := atoi(text[m[6]:m[7]])
		if entity, ok := e.makeDate(text, year, month, day, m[0], m[1], "numeric", confDateNumeric); ok {
			candidates = append(candidates, entity)
		}
	}

	for _, m := range e.iso.FindAllStringSubmatchIndex(text, -1) {
		year := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		day := atoi(text[m[6]:m[7]])
		if entity, ok := e.makeDate(text, year, month, day, m[0], m[1], "iso", confDateISO); ok {
			candidates = append(candidates, entity)
		}
	}

	for _, m := range e.longForm.FindAllStringSubmatchIndex(text, -1) {
		day := atoi(text[m[2]:m[3]])
		month := e.months[strings.ToLower(text[m[4]:m[5]])]
		year := atoi(text[m[6]:m[7]])
		if entity, ok := e.makeDate(text, year, int(month), day, m[0], m[1], "longform", confDateLongForm); ok {
			candidates = append(candidates, entity)
		}
	}

	return dedupeBySpan(candidates)
}

// makeDate validates a candidate through a time.Date round-trip, which
// rejects impossible calendar dates like 31/02
func (e *DateExtractor) makeDate(text string, year, month, day, start, end int, source string, confidence float64) (model.Entity, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return model.Entity{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return model.Entity{}, false
	}

	if e.hasContext(text, start, end) {
		confidence += contextDateBoost
		if confidence > 1.0 {
			confidence = 1.0
		}
		source += "+context"
	}

	return model.Entity{
		Type:       model.EntityDate,
		Value:      d.Format("2006-01-02"),
		Confidence: confidence,
		Start:      start,
		End:        end,
		Source:     source,
		Date:       d,
	}, true
}

// hasContext scans the window around a match for administrative
// keywords
func (e *DateExtractor) hasContext(text string, start, end int) bool {
	window := strings.ToLower(contextWindow(text, start, end, e.contextWindow))
	for _, word := range e.contextWords {
		if strings.Contains(window, word) {
			return true
		}
	}
	return false
}

// contextWindow returns up to size bytes before and after a span
func contextWindow(text string, start, end, size int) string {
	lo := start - size
	if lo < 0 {
		lo = 0
	}
	hi := end + size
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// dedupeBySpan drops overlapping entities, keeping the
// highest-confidence candidate for each region, and orders the
// survivors by position
func dedupeBySpan(entities []model.Entity) []model.Entity {
	if len(entities) < 2 {
		return entities
	}

	// Highest confidence wins; ties go to the earlier, longer match
	sorted := make([]model.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return (a.End - a.Start) > (b.End - b.Start)
	})

	var kept []model.Entity
	for _, cand := range sorted {
		overlaps := false
		for _, k := range kept {
			if cand.Overlaps(k) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, cand)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// Callers only pass digit groups captured by the patterns
		panic(fmt.Sprintf("extract: non-numeric capture %q", s))
	}
	return n
}
