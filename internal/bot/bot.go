// Package bot implements the message ingestion loop: it polls the
// transport for updates, turns free-text messages into ledger entries and
// routes commands, tracking a monotonic cursor so no message is processed
// twice.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gbarbosa/gastos-bot/internal/category"
	"github.com/gbarbosa/gastos-bot/internal/config"
	"github.com/gbarbosa/gastos-bot/internal/ledger"
	"github.com/gbarbosa/gastos-bot/internal/logger"
	"github.com/gbarbosa/gastos-bot/internal/models"
	"github.com/gbarbosa/gastos-bot/internal/parser"
	"github.com/gbarbosa/gastos-bot/internal/settings"
)

// Source is the abstract message source. Poll blocks up to timeout
// waiting for updates after offset and returns an empty slice on timeout.
type Source interface {
	Poll(ctx context.Context, offset int64, timeout time.Duration) ([]models.Update, error)
}

// Sink is the abstract message sink for replies.
type Sink interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

const writeQueueSize = 64

// Bot wires the loop to its collaborators. Construct once at startup and
// run with Start; there is exactly one consumer per source.
type Bot struct {
	cfg      *config.Config
	source   Source
	sink     Sink
	store    ledger.Store
	settings *settings.Store
	table    *category.Table

	cursor int64
	writes chan models.Entry
	done   chan struct{}

	// now is a seam for tests.
	now func() time.Time
}

// New creates a Bot.
func New(cfg *config.Config, source Source, sink Sink, store ledger.Store, sts *settings.Store) *Bot {
	return &Bot{
		cfg:      cfg,
		source:   source,
		sink:     sink,
		store:    store,
		settings: sts,
		table:    category.DefaultTable(),
		writes:   make(chan models.Entry, writeQueueSize),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Cursor returns the current in-memory cursor. The cursor is process
// state only; a restart relies on the transport's own retention.
func (b *Bot) Cursor() int64 {
	return b.cursor
}

// Start runs the poll loop until ctx is cancelled. Queued ledger writes
// are drained before Start returns.
func (b *Bot) Start(ctx context.Context) {
	go b.runWriter()
	defer func() {
		close(b.writes)
		<-b.done
	}()

	if b.cfg.DrainOnStart {
		b.drainBacklog(ctx)
	}

	logger.Log.Info().Int64("cursor", b.cursor).Msg("Bot started polling")

	for {
		if ctx.Err() != nil {
			logger.Log.Info().Msg("Polling stopped")
			return
		}

		updates, err := b.source.Poll(ctx, b.cursor, b.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				logger.Log.Info().Msg("Polling stopped")
				return
			}
			// Transient transport failure: retry with the same cursor.
			logger.Log.Warn().Err(err).Msg("Poll failed, retrying")
			select {
			case <-ctx.Done():
			case <-time.After(b.cfg.RetryDelay):
			}
			continue
		}

		for _, update := range updates {
			b.dispatch(ctx, update)
			// The cursor advances even when dispatch side effects fail:
			// at most one delivery attempt per message.
			b.cursor = update.SequenceID + 1
		}
	}
}

// drainBacklog fast-forwards the cursor past all pending messages so a
// backlog accumulated while the process was down is discarded.
func (b *Bot) drainBacklog(ctx context.Context) {
	updates, err := b.source.Poll(ctx, -1, 0)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Backlog drain failed, starting from transport default")
		return
	}
	if len(updates) == 0 {
		return
	}
	b.cursor = updates[len(updates)-1].SequenceID + 1
	logger.Log.Info().Int64("cursor", b.cursor).Msg("Discarded pending backlog")
}

// dispatch handles one update. All errors are dealt with here; nothing
// propagates back into the poll loop.
func (b *Bot) dispatch(ctx context.Context, update models.Update) {
	text := strings.TrimSpace(update.Text)
	if update.ChatID == 0 || text == "" {
		return
	}

	logger.Log.Info().
		Str("chat", logger.HashChatID(update.ChatID)).
		Str("name", update.FirstName).
		Str("text", text).
		Msg("User input")

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, update, text)
		return
	}

	b.handleExpense(ctx, update, text)
}

// handleExpense runs the extractor/classifier on free text, replies
// immediately and queues the ledger write.
func (b *Bot) handleExpense(ctx context.Context, update models.Update, text string) {
	expense, err := parser.Extract(text)
	if errors.Is(err, parser.ErrAmountNotFound) {
		b.reply(ctx, update.ChatID, "❌ Valor não identificado\n\n💡 Exemplos: mercado 50, uber 25.50")
		return
	}

	entry := models.Entry{
		Date:        b.now(),
		Description: expense.Description,
		Amount:      expense.Amount,
		Category:    b.table.Match(expense.Description),
		ChatID:      update.ChatID,
	}

	// The confirmation never waits on the store.
	b.reply(ctx, update.ChatID, "✅ "+entry.Description+" - R$ "+entry.FormattedAmount()+"\n📂 "+titleCase(entry.Category))
	b.writes <- entry
}

// reply sends a message best-effort. Send failures are logged and
// dropped; delivery is not guaranteed.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.sink.SendMessage(ctx, chatID, text); err != nil {
		logger.Log.Error().
			Str("chat", logger.HashChatID(chatID)).
			Err(err).
			Msg("Failed to send reply")
	}
}

// titleCase upper-cases the first rune, matching how category labels are
// shown to the user.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
