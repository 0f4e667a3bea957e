package models

import "encoding/json"

// Context budgets per call site, in bytes of serialized search result
const (
	VerdictContextBudget = 2000
	ChatContextBudget    = 1500
	VoiceContextBudget   = 1000
)

// RetrievalContext holds the case-law search result for one prompt
type RetrievalContext struct {
	Query         string          `json:"query"`
	Category      string          `json:"category"`
	RawResult     json.RawMessage `json:"raw_result,omitempty"` // nil when the search failed
	TruncatedText string          `json:"truncated_text"`
}

// HasResult reports whether the search returned a body
func (r *RetrievalContext) HasResult() bool {
	return r != nil && len(r.RawResult) > 0
}
