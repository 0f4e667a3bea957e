package repository

import (
	"context"
	"errors"

	"nyaymitra-backend/models"
)

var ErrInvalidLimit = errors.New("limit must be positive")

// ConversationStore keeps an ordered, append-only turn history per user
type ConversationStore interface {
	// Append adds turn at the end of userID's history
	Append(ctx context.Context, userID string, turn models.ConversationTurn) error
	// History returns userID's turns in insertion order; never nil
	History(ctx context.Context, userID string) ([]models.ConversationTurn, error)
}

// CaseLedger is the append-only record of completed verdicts
type CaseLedger interface {
	// Record appends rec and assigns rec.ID
	Record(ctx context.Context, rec *models.CaseRecord) error
	List(ctx context.Context) ([]models.CaseRecord, error)
	// Recent returns the last n records in insertion order
	Recent(ctx context.Context, n int) ([]models.CaseRecord, error)
}

// FeedbackLedger is the append-only record of user feedback
type FeedbackLedger interface {
	Record(ctx context.Context, rec *models.FeedbackRecord) error
	List(ctx context.Context) ([]models.FeedbackRecord, error)
	Recent(ctx context.Context, n int) ([]models.FeedbackRecord, error)
}

// tail returns the last n elements of items, or all of them when n exceeds the length
func tail[T any](items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[len(items)-n:])
	return out
}
