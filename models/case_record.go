package models

import "time"

// CaseRecord is a completed verdict generation. Records are append-only.
type CaseRecord struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id"`
	Category           string    `json:"category"`
	Timestamp          time.Time `json:"timestamp"`
	PlaintiffStatement string    `json:"plaintiff_statement"`
	DefendantStatement string    `json:"defendant_statement"`
	VerdictText        string    `json:"verdict"`
}

// FeedbackRecord is a user rating of a generated verdict
type FeedbackRecord struct {
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Rating    string    `json:"rating"`
	Remarks   string    `json:"remarks"`
	Timestamp time.Time `json:"timestamp"`
}
