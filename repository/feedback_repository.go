package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nyaymitra-backend/models"
)

var _ FeedbackLedger = (*PostgresFeedbackLedger)(nil)

// PostgresFeedbackLedger stores feedback in the feedback table
type PostgresFeedbackLedger struct {
	db *pgxpool.Pool
}

// NewPostgresFeedbackLedger creates a new feedback ledger
func NewPostgresFeedbackLedger(db *pgxpool.Pool) *PostgresFeedbackLedger {
	return &PostgresFeedbackLedger{db: db}
}

// Record implements FeedbackLedger
func (r *PostgresFeedbackLedger) Record(ctx context.Context, rec *models.FeedbackRecord) error {
	query := `
		INSERT INTO feedback (user_id, category, rating, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, rec.UserID, rec.Category, rec.Rating, rec.Remarks, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// List implements FeedbackLedger
func (r *PostgresFeedbackLedger) List(ctx context.Context) ([]models.FeedbackRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, category, rating, remarks, created_at
		FROM feedback
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	return scanFeedback(rows)
}

// Recent implements FeedbackLedger
func (r *PostgresFeedbackLedger) Recent(ctx context.Context, n int) ([]models.FeedbackRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT user_id, category, rating, remarks, created_at
		FROM (
			SELECT * FROM feedback ORDER BY id DESC LIMIT $1
		) recent
		ORDER BY id`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent feedback: %w", err)
	}
	return scanFeedback(rows)
}

func scanFeedback(rows pgx.Rows) ([]models.FeedbackRecord, error) {
	defer rows.Close()

	records := make([]models.FeedbackRecord, 0)
	for rows.Next() {
		var rec models.FeedbackRecord
		if err := rows.Scan(&rec.UserID, &rec.Category, &rec.Rating, &rec.Remarks, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
