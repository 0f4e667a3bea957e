package repository

import (
	"context"
	"sync"

	"nyaymitra-backend/models"
)

// Verify interface compliance
var (
	_ ConversationStore = (*MemoryConversationStore)(nil)
	_ CaseLedger        = (*MemoryCaseLedger)(nil)
	_ FeedbackLedger    = (*MemoryFeedbackLedger)(nil)
)

// MemoryConversationStore keeps histories for the process lifetime.
// There is no size cap and no eviction.
type MemoryConversationStore struct {
	mu      sync.Mutex
	history map[string][]models.ConversationTurn
}

// NewMemoryConversationStore creates an empty store
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{history: make(map[string][]models.ConversationTurn)}
}

// Append implements ConversationStore
func (s *MemoryConversationStore) Append(ctx context.Context, userID string, turn models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[userID] = append(s.history[userID], turn)
	return nil
}

// History implements ConversationStore
func (s *MemoryConversationStore) History(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, ok := s.history[userID]
	if !ok {
		turns = []models.ConversationTurn{}
		s.history[userID] = turns
	}
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// MemoryCaseLedger assigns ids from a counter guarded by the same lock as the
// slice, so concurrent writers always get distinct, gapless ids
type MemoryCaseLedger struct {
	mu      sync.RWMutex
	records []models.CaseRecord
}

// NewMemoryCaseLedger creates an empty ledger
func NewMemoryCaseLedger() *MemoryCaseLedger {
	return &MemoryCaseLedger{}
}

// Record implements CaseLedger
func (l *MemoryCaseLedger) Record(ctx context.Context, rec *models.CaseRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.ID = int64(len(l.records)) + 1
	l.records = append(l.records, *rec)
	return nil
}

// List implements CaseLedger
func (l *MemoryCaseLedger) List(ctx context.Context) ([]models.CaseRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return tail(l.records, len(l.records)), nil
}

// Recent implements CaseLedger
func (l *MemoryCaseLedger) Recent(ctx context.Context, n int) ([]models.CaseRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	return tail(l.records, n), nil
}

// MemoryFeedbackLedger keeps feedback for the process lifetime
type MemoryFeedbackLedger struct {
	mu      sync.RWMutex
	records []models.FeedbackRecord
}

// NewMemoryFeedbackLedger creates an empty ledger
func NewMemoryFeedbackLedger() *MemoryFeedbackLedger {
	return &MemoryFeedbackLedger{}
}

// Record implements FeedbackLedger
func (l *MemoryFeedbackLedger) Record(ctx context.Context, rec *models.FeedbackRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, *rec)
	return nil
}

// List implements FeedbackLedger
func (l *MemoryFeedbackLedger) List(ctx context.Context) ([]models.FeedbackRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return tail(l.records, len(l.records)), nil
}

// Recent implements FeedbackLedger
func (l *MemoryFeedbackLedger) Recent(ctx context.Context, n int) ([]models.FeedbackRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	return tail(l.records, n), nil
}
