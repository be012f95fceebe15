package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vgauthier/recevo/internal/model"
)

// Confidence tiers for amounts, by strength of surrounding context
const (
	confAmountCurrency = 0.95 // explicit currency token nearby
	confAmountKeyword  = 0.85 // financial vocabulary nearby
	confAmountBare     = 0.50 // digits with no supporting context
)

// AmountExtractor finds monetary amounts in French notation (space or
// no-break space thousands, comma decimal) and international notation
// (comma thousands, dot decimal). When a candidate carries both
// separators, whichever appears later is the decimal separator.
type AmountExtractor struct {
	candidate     *regexp.Regexp
	yearLike      *regexp.Regexp
	currencyWords []string
	keywordWords  []string
	noiseWords    []string
	periodWords   []string
	minBare       decimal.Decimal
	maxAmount     decimal.Decimal
	contextWindow int
}

// NewAmountExtractor compiles the amount patterns once
func NewAmountExtractor(rules model.RulesConfig) *AmountExtractor {
	return &AmountExtractor{
		// Either digit groups joined by space / no-break space / dot /
		// comma thousands separators, or a plain digit run; both with
		// an optional 1-2 digit decimal part
		candidate: regexp.MustCompile(`\d{1,3}(?:[ \x{00A0}\x{202F}.,]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?`),
		yearLike:  regexp.MustCompile(`^(?:19|20)\d{2}$`),
		currencyWords: []string{"€", "euro", "eur"},
		keywordWords: []string{
			"montant", "total", "facture", "prix", "cout", "coût",
			"reglement", "règlement", "somme", "tva", "ttc", "ht",
			"remise", "acompte", "verse", "versé", "rembourse", "remboursé",
		},
		noiseWords: []string{
			"page", "tél", "tel.", "telephone", "téléphone", "fax",
			"portable", "code postal", "article", "art.", "alinéa", "alinea",
			"paragraphe", "§", "version", "siret", "siren", "n° de dossier",
		},
		periodWords: []string{
			"année", "annee", "exercice", "période", "periode", "au titre de",
		},
		minBare:       decimal.NewFromFloat(rules.MinBareAmount),
		maxAmount:     decimal.NewFromFloat(rules.MaxAmount),
		contextWindow: rules.ContextWindow,
	}
}

// Extract returns the monetary amounts in text, ordered by position.
// Candidates whose context matches the noise blacklist (page numbers,
// phone numbers, postal codes, article references) are rejected, as
// are small bare numbers with no financial context.
func (e *AmountExtractor) Extract(text string) []model.Entity {
	var candidates []model.Entity

	for _, span := range e.candidate.FindAllStringIndex(text, -1) {
		start, end := span[0], span[1]
		raw := text[start:end]

		// Fragments of dates ("15/03/2023"), ranges, and digits embedded
		// in identifiers ("FAC2023") are not amounts
		if badAdjacency(text, start, end) {
			continue
		}

		value, ok := normalizeAmount(raw)
		if !ok {
			continue
		}
		if value.LessThan(decimal.NewFromFloat(0.01)) || value.GreaterThan(e.maxAmount) {
			continue
		}

		before := strings.ToLower(contextWindow(text, start, start, e.contextWindow))
		after := strings.ToLower(contextWindow(text, end, end, e.contextWindow))
		context := before + " " + after

		if e.isNoise(context) {
			continue
		}

		// A 19xx/20xx integer next to period vocabulary is a year
		// reference, even when a currency token is also in range
		if e.yearLike.MatchString(raw) && containsAny(context, e.periodWords) {
			continue
		}

		confidence := confAmountBare
		source := "bare"
		switch {
		case containsAny(context, e.currencyWords):
			confidence = confAmountCurrency
			source = "currency"
		case containsAny(context, e.keywordWords):
			confidence = confAmountKeyword
			source = "keyword"
		default:
			// A bare 4-digit 19xx/20xx integer is far more likely a
			// year than a monetary value
			if e.yearLike.MatchString(raw) {
				continue
			}
			if value.LessThan(e.minBare) {
				continue
			}
		}

		candidates = append(candidates, model.Entity{
			Type:       model.EntityAmount,
			Value:      value.StringFixed(2),
			Confidence: confidence,
			Start:      start,
			End:        end,
			Source:     source,
			Amount:     value,
		})
	}

	return dedupeBySpan(candidates)
}

func (e *AmountExtractor) isNoise(context string) bool {
	return containsAny(context, e.noiseWords)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// badAdjacency reports whether the match directly touches a '/' or
// '-' (date fragment, range) or a letter (part of an identifier)
func badAdjacency(text string, start, end int) bool {
	if start > 0 && isAmountBreaker(text[start-1]) {
		return true
	}
	if end < len(text) && isAmountBreaker(text[end]) {
		return true
	}
	return false
}

func isAmountBreaker(c byte) bool {
	if c == '/' || c == '-' {
		return true
	}
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// normalizeAmount converts a raw match to a decimal value.
//
// Policy for mixed separators: the one appearing later in the string
// is the decimal separator, the other is stripped as a thousands
// separator. A single separator followed by exactly three digits is a
// thousands separator; one or two trailing digits make it a decimal
// separator. Spaces and no-break spaces always group thousands.
func normalizeAmount(raw string) (decimal.Decimal, bool) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, raw)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = resolveSingleSeparator(s, ",", lastComma)
	case lastDot >= 0:
		s = resolveSingleSeparator(s, ".", lastDot)
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value.Round(2), true
}

// resolveSingleSeparator decides thousands vs decimal for a string
// with one kind of separator
func resolveSingleSeparator(s, sep string, last int) string {
	digitsAfter := len(s) - last - 1
	if strings.Count(s, sep) > 1 || digitsAfter == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	if sep == "," {
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}
