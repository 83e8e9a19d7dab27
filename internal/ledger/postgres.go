package ledger

import (
	"context"
	"fmt"

	"github.com/gbarbosa/gastos-bot/internal/database"
	"github.com/gbarbosa/gastos-bot/internal/models"
)

// PostgresStore keeps the ledger in a PostgreSQL table. Unlike the sheet
// backend it records the sender, so per-sender undo is supported.
type PostgresStore struct {
	db database.PGXDB
}

// NewPostgresStore creates a PostgresStore on an existing connection.
func NewPostgresStore(db database.PGXDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append adds one entry.
func (s *PostgresStore) Append(ctx context.Context, entry models.Entry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO gastos (chat_id, entry_date, description, amount, category)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ChatID, entry.Date, entry.Description, entry.Amount, entry.Category)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// Entries returns all entries in append order.
func (s *PostgresStore) Entries(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT chat_id, entry_date, description, amount, category
		FROM gastos
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var entry models.Entry
		if err := rows.Scan(&entry.ChatID, &entry.Date, &entry.Description, &entry.Amount, &entry.Category); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

// DeleteLast removes the most recently appended entry, optionally scoped
// to one sender.
func (s *PostgresStore) DeleteLast(ctx context.Context, chatID int64) error {
	var (
		query string
		args  []any
	)
	if chatID == GlobalScope {
		query = `DELETE FROM gastos WHERE id = (SELECT id FROM gastos ORDER BY id DESC LIMIT 1)`
	} else {
		query = `DELETE FROM gastos WHERE id = (SELECT id FROM gastos WHERE chat_id = $1 ORDER BY id DESC LIMIT 1)`
		args = []any{chatID}
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete last entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmpty
	}
	return nil
}
