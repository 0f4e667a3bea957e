package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nyaymitra-backend/models"
)

var _ CaseLedger = (*PostgresCaseLedger)(nil)

// PostgresCaseLedger stores case records in the cases table.
// Ids come from an identity column, which is safe under concurrent writers.
type PostgresCaseLedger struct {
	db *pgxpool.Pool
}

// NewPostgresCaseLedger creates a new case ledger
func NewPostgresCaseLedger(db *pgxpool.Pool) *PostgresCaseLedger {
	return &PostgresCaseLedger{db: db}
}

// Record implements CaseLedger
func (r *PostgresCaseLedger) Record(ctx context.Context, rec *models.CaseRecord) error {
	query := `
		INSERT INTO cases (
			user_id, category, plaintiff_statement, defendant_statement, verdict, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(
		ctx, query,
		rec.UserID,
		rec.Category,
		rec.PlaintiffStatement,
		rec.DefendantStatement,
		rec.VerdictText,
		rec.Timestamp,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert case: %w", err)
	}
	return nil
}

// List implements CaseLedger
func (r *PostgresCaseLedger) List(ctx context.Context) ([]models.CaseRecord, error) {
	query := `
		SELECT id, user_id, category, plaintiff_statement, defendant_statement, verdict, created_at
		FROM cases
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	return scanCases(rows)
}

// Recent implements CaseLedger
func (r *PostgresCaseLedger) Recent(ctx context.Context, n int) ([]models.CaseRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	query := `
		SELECT id, user_id, category, plaintiff_statement, defendant_statement, verdict, created_at
		FROM (
			SELECT * FROM cases ORDER BY id DESC LIMIT $1
		) recent
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent cases: %w", err)
	}
	return scanCases(rows)
}

func scanCases(rows pgx.Rows) ([]models.CaseRecord, error) {
	defer rows.Close()

	records := make([]models.CaseRecord, 0)
	for rows.Next() {
		var rec models.CaseRecord
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Category,
			&rec.PlaintiffStatement,
			&rec.DefendantStatement,
			&rec.VerdictText,
			&rec.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cases: %w", err)
	}
	return records, nil
}
