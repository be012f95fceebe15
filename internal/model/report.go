package model

import "time"

// Analysis is the complete screening result for one claim document.
// Everything in it is derived from a single synchronous analysis call;
// persistence belongs to the caller.
type Analysis struct {
	DocumentID     string         `json:"document_id"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
	TextLength     int            `json:"text_length"`
	Entities       Bundle         `json:"entities"`
	Classification Classification `json:"classification"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// EntityCounts summarizes how many entities of each type were found
func (a Analysis) EntityCounts() map[string]int {
	return map[string]int{
		"dates":      len(a.Entities.Dates),
		"amounts":    len(a.Entities.Amounts),
		"references": len(a.Entities.References),
	}
}
