package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatement is one idempotent DDL statement
type schemaStatement struct {
	name string
	sql  string
}

var schema = []schemaStatement{
	{
		name: "cases table",
		sql: `CREATE TABLE IF NOT EXISTS cases (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id TEXT NOT NULL,
    category TEXT NOT NULL,
    plaintiff_statement TEXT NOT NULL DEFAULT '',
    defendant_statement TEXT NOT NULL DEFAULT '',
    verdict TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "feedback table",
		sql: `CREATE TABLE IF NOT EXISTS feedback (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    user_id TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    rating TEXT NOT NULL,
    remarks TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "cases by user",
		sql:  "CREATE INDEX IF NOT EXISTS idx_cases_user_id ON cases(user_id);",
	},
	{
		name: "cases by category",
		sql:  "CREATE INDEX IF NOT EXISTS idx_cases_category ON cases(category);",
	},
	{
		name: "feedback by category",
		sql:  "CREATE INDEX IF NOT EXISTS idx_feedback_category ON feedback(category);",
	},
}

// EnsureSchema creates the ledger tables and indexes when missing.
// It returns the names of the statements it ran.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	applied := make([]string, 0, len(schema))
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return applied, fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
		applied = append(applied, stmt.name)
	}
	return applied, nil
}
