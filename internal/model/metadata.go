package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ClaimMetadata is caller-supplied context about a claim. The engine
// reads it but never mutates it; every field is optional and a zero
// value means "not provided".
type ClaimMetadata struct {
	Claimant      string          `json:"claimant,omitempty"`
	Sector        string          `json:"sector,omitempty"`
	ClaimDate     *time.Time      `json:"claim_date,omitempty"`
	PeriodStart   int             `json:"period_start,omitempty"` // first contested year
	PeriodEnd     int             `json:"period_end,omitempty"`   // last contested year
	ClaimedAmount decimal.Decimal `json:"claimed_amount,omitempty"`
}

// HasPeriod reports whether the metadata carries a usable year range
func (m ClaimMetadata) HasPeriod() bool {
	return m.PeriodStart > 0 && m.PeriodEnd >= m.PeriodStart
}

// CanonicalString renders the metadata in a stable form, used for
// cache keys. Field order is fixed; absent fields render empty.
func (m ClaimMetadata) CanonicalString() string {
	var b strings.Builder
	b.WriteString(m.Claimant)
	b.WriteString("|")
	b.WriteString(m.Sector)
	b.WriteString("|")
	if m.ClaimDate != nil {
		b.WriteString(m.ClaimDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "|%d|%d|%s", m.PeriodStart, m.PeriodEnd, m.ClaimedAmount.String())
	return b.String()
}
