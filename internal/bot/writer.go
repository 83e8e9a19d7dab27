package bot

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gbarbosa/gastos-bot/internal/config"
	"github.com/gbarbosa/gastos-bot/internal/ledger"
	"github.com/gbarbosa/gastos-bot/internal/logger"
	"github.com/gbarbosa/gastos-bot/internal/report"
)

var (
	alertThreshold = decimal.NewFromInt(90)
	warnThreshold  = decimal.NewFromInt(75)
	hundred        = decimal.NewFromInt(100)
)

// runWriter drains the write queue on a single goroutine so ledger
// appends happen in enqueue order. One queue means one writer: per-sender
// append order is preserved without per-sender locking.
func (b *Bot) runWriter() {
	defer close(b.done)

	// Queued writes finish even after the poll context is cancelled.
	ctx := context.Background()

	for entry := range b.writes {
		if err := b.store.Append(ctx, entry); err != nil {
			// The message is already consumed; at most once, not at
			// least once. Losing the entry beats a reprocessing storm.
			logger.Log.Error().
				Str("chat", logger.HashChatID(entry.ChatID)).
				Str("description", logger.SanitizeDescription(entry.Description)).
				Err(err).
				Msg("Ledger append failed")
			b.reply(ctx, entry.ChatID, "❌ Erro ao salvar o gasto")
			continue
		}

		logger.Log.Info().
			Str("chat", logger.HashChatID(entry.ChatID)).
			Str("amount", entry.FormattedAmount()).
			Str("category", entry.Category).
			Msg("Entry saved")

		b.checkGoalAlert(ctx, entry.ChatID)
	}
}

// checkGoalAlert warns the user after an append pushes the month total
// past 75% or 90% of their spending goal.
func (b *Bot) checkGoalAlert(ctx context.Context, chatID int64) {
	goal, ok, err := b.settings.Goal(chatID)
	if err != nil || !ok || goal.IsZero() {
		return
	}
	enabled, err := b.settings.AlertsEnabled(chatID)
	if err != nil || !enabled {
		return
	}

	entries, err := b.store.Entries(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Could not read ledger for goal alert")
		return
	}

	total := report.Total(report.FilterMonth(entries, b.now()))
	pct := total.Div(goal).Mul(hundred)

	switch {
	case pct.GreaterThanOrEqual(alertThreshold):
		b.reply(ctx, chatID, "🚨 *Alerta de Meta!*\n\nVocê já gastou "+pct.StringFixed(1)+"% da sua meta mensal!\nMeta: R$ "+goal.StringFixed(2)+"\nGasto: R$ "+total.StringFixed(2))
	case pct.GreaterThanOrEqual(warnThreshold):
		b.reply(ctx, chatID, "⚠️ *Atenção!*\n\nVocê gastou "+pct.StringFixed(1)+"% da sua meta mensal.")
	}
}

// undoScope maps the configured undo policy to the DeleteLast argument.
func (b *Bot) undoScope(chatID int64) int64 {
	if b.cfg.UndoScope == config.UndoSender {
		return chatID
	}
	return ledger.GlobalScope
}
