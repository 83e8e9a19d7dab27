// Package ledger persists expense entries. The bot only depends on the
// Store interface; backends exist for Google Sheets, PostgreSQL and an
// in-memory store used by tests.
package ledger

import (
	"context"
	"errors"

	"github.com/gbarbosa/gastos-bot/internal/models"
)

// ErrEmpty is returned by DeleteLast when there is nothing to delete.
var ErrEmpty = errors.New("ledger is empty")

// ErrSenderScopeUnsupported is returned by backends that cannot attribute
// rows to a sender.
var ErrSenderScopeUnsupported = errors.New("per-sender delete is not supported by this backend")

// GlobalScope selects the most recent entry regardless of sender when
// passed to DeleteLast.
const GlobalScope int64 = 0

// Store is an append-only expense ledger with explicit undo.
type Store interface {
	// Append adds one entry. The backend serializes concurrent appends;
	// a failed append must not leave a partial row behind.
	Append(ctx context.Context, entry models.Entry) error

	// Entries returns all entries in append order.
	Entries(ctx context.Context) ([]models.Entry, error)

	// DeleteLast removes the most recently appended entry. With
	// GlobalScope the last entry overall is removed; otherwise the last
	// entry of the given sender.
	DeleteLast(ctx context.Context, chatID int64) error
}

// Compile-time interface checks.
var (
	_ Store = (*SheetStore)(nil)
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
