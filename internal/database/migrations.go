package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS gastos (
			id SERIAL PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			entry_date DATE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount DECIMAL(12, 2) NOT NULL,
			category TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gastos_chat_id ON gastos(chat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gastos_entry_date ON gastos(entry_date)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
