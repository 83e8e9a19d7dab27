package bot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gbarbosa/gastos-bot/internal/config"
	"github.com/gbarbosa/gastos-bot/internal/ledger"
	"github.com/gbarbosa/gastos-bot/internal/models"
	"github.com/gbarbosa/gastos-bot/internal/settings"
)

// testNow is the fixed clock for loop and command tests. 2025-03-15 is a
// Saturday.
var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

// pollResult is one scripted answer from the fake source.
type pollResult struct {
	updates []models.Update
	err     error
}

// fakeSource plays back a script of poll results and records the offset
// of every call. Once the script runs out it cancels the loop context.
type fakeSource struct {
	mu      sync.Mutex
	script  []pollResult
	offsets []int64
	cancel  context.CancelFunc
}

func (s *fakeSource) Poll(_ context.Context, offset int64, _ time.Duration) ([]models.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets = append(s.offsets, offset)
	if len(s.script) == 0 {
		if s.cancel != nil {
			s.cancel()
		}
		return nil, nil
	}
	next := s.script[0]
	s.script = s.script[1:]
	return next.updates, next.err
}

func (s *fakeSource) polledOffsets() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.offsets))
	copy(out, s.offsets)
	return out
}

type sentMessage struct {
	chatID int64
	text   string
}

type sentDocument struct {
	chatID   int64
	filename string
	data     []byte
	caption  string
}

// fakeSink records outgoing messages and documents.
type fakeSink struct {
	mu       sync.Mutex
	messages []sentMessage
	docs     []sentDocument
	sendErr  error
}

func (s *fakeSink) SendMessage(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (s *fakeSink) SendDocument(_ context.Context, chatID int64, filename string, data []byte, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sendErr != nil {
		return s.sendErr
	}
	s.docs = append(s.docs, sentDocument{chatID: chatID, filename: filename, data: data, caption: caption})
	return nil
}

func (s *fakeSink) sentMessages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *fakeSink) sentDocuments() []sentDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		TelegramToken: "test-token",
		LedgerBackend: config.BackendPostgres,
		UndoScope:     config.UndoGlobal,
		PollTimeout:   10 * time.Millisecond,
		RetryDelay:    time.Millisecond,
	}
}

// newTestBot builds a bot on a memory store with a fixed clock.
func newTestBot(t *testing.T, cfg *config.Config, source Source, sink Sink, store ledger.Store) *Bot {
	t.Helper()
	sts := settings.NewStore(filepath.Join(t.TempDir(), "bot_config.json"))
	b := New(cfg, source, sink, store, sts)
	b.now = func() time.Time { return testNow }
	return b
}
