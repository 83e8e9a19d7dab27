package ledger

import (
	"context"
	"sync"

	"github.com/gbarbosa/gastos-bot/internal/models"
)

// MemoryStore is an in-memory Store used by tests and as the reference
// implementation for the Store contract.
type MemoryStore struct {
	mu      sync.Mutex
	entries []models.Entry

	// AppendErr, when set, makes every Append fail with it.
	AppendErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds one entry.
func (s *MemoryStore) Append(_ context.Context, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of all entries in append order.
func (s *MemoryStore) Entries(_ context.Context) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// DeleteLast removes the most recent entry, optionally scoped to a sender.
func (s *MemoryStore) DeleteLast(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		if chatID == GlobalScope || s.entries[i].ChatID == chatID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return ErrEmpty
}
