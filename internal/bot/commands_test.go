package bot

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gbarbosa/gastos-bot/internal/config"
	"github.com/gbarbosa/gastos-bot/internal/ledger"
	"github.com/gbarbosa/gastos-bot/internal/models"
)

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs string
	}{
		{name: "plain command", input: "/saldo", wantName: "saldo", wantArgs: ""},
		{name: "command with args", input: "/categoria alimentação", wantName: "categoria", wantArgs: "alimentação"},
		{name: "bot mention stripped", input: "/saldo@gastos_bot", wantName: "saldo", wantArgs: ""},
		{name: "mention with args", input: "/meta@gastos_bot 2000", wantName: "meta", wantArgs: "2000"},
		{name: "uppercase normalized", input: "/SALDO", wantName: "saldo", wantArgs: ""},
		{name: "extra spaces trimmed", input: "/meta   2000  ", wantName: "meta", wantArgs: "2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			name, args := splitCommand(tt.input)
			require.Equal(t, tt.wantName, name)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

// commandBot builds a bot with a memory store for direct handler calls.
func commandBot(t *testing.T) (*Bot, *fakeSink, *ledger.MemoryStore) {
	t.Helper()
	sink := &fakeSink{}
	store := ledger.NewMemoryStore()
	b := newTestBot(t, testConfig(), &fakeSource{}, sink, store)
	return b, sink, store
}

func seedEntry(t *testing.T, store *ledger.MemoryStore, day time.Time, desc, amount, category string, chatID int64) {
	t.Helper()
	require.NoError(t, store.Append(context.Background(), models.Entry{
		Date:        day,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		ChatID:      chatID,
	}))
}

func lastReply(t *testing.T, sink *fakeSink) string {
	t.Helper()
	msgs := sink.sentMessages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1].text
}

func runCommand(b *Bot, text string) {
	b.handleCommand(context.Background(), models.Update{ChatID: 7, FirstName: "Ana"}, text)
}

func TestCommandStart(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/start")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Olá Ana")
	require.Contains(t, reply, "Bot Controle de Gastos ativo")
}

func TestCommandHelp(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/ajuda")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Comandos Disponíveis")
	require.Contains(t, reply, "/saldo")
	require.Contains(t, reply, "/grafico")
}

func TestCommandUnknown(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/lancamento")

	require.Equal(t, "❓ Comando não reconhecido. Use /ajuda para ver os comandos disponíveis.", lastReply(t, sink))
}

func TestCommandBalanceWithoutGoal(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "150.00", "alimentação", 7)
	seedEntry(t, store, testNow.AddDate(0, -1, 0), "antigo", "999.00", "outros", 7)

	runCommand(b, "/saldo")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Saldo 03/2025")
	require.Contains(t, reply, "Total gasto: R$ 150.00")
	require.Contains(t, reply, "Defina uma meta")
}

func TestCommandBalanceWithGoal(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	require.NoError(t, b.settings.SetGoal(7, decimal.NewFromInt(2000)))
	seedEntry(t, store, testNow, "mercado", "500.00", "alimentação", 7)

	runCommand(b, "/saldo")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Meta mensal: R$ 2000.00")
	require.Contains(t, reply, "🟢 25.0% da meta")
	require.Contains(t, reply, "Restante: R$ 1500.00")
}

func TestCommandToday(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "50.00", "alimentação", 7)
	seedEntry(t, store, testNow.AddDate(0, 0, -1), "ontem", "30.00", "outros", 7)

	runCommand(b, "/hoje")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Gastos de Hoje")
	require.Contains(t, reply, "• mercado - R$ 50.00")
	require.NotContains(t, reply, "ontem")
	require.Contains(t, reply, "Total: R$ 50.00")
}

func TestCommandTodayEmpty(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/hoje")

	require.Contains(t, lastReply(t, sink), "Nenhum gasto registrado hoje")
}

func TestCommandWeek(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	// testNow is Saturday 2025-03-15; Monday the 10th is in the week,
	// Sunday the 9th is not.
	seedEntry(t, store, time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC), "segunda", "10.00", "outros", 7)
	seedEntry(t, store, time.Date(2025, time.March, 9, 8, 0, 0, 0, time.UTC), "domingo passado", "20.00", "outros", 7)

	runCommand(b, "/semana")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Gastos da Semana")
	require.Contains(t, reply, "Total de gastos: 1")
	require.Contains(t, reply, "Total: R$ 10.00")
}

func TestCommandCategory(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "50.00", "alimentação", 7)
	seedEntry(t, store, testNow, "uber", "20.00", "transporte", 7)

	runCommand(b, "/categoria alimentação")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Alimentação")
	require.Contains(t, reply, "• mercado - R$ 50.00")
	require.NotContains(t, reply, "uber")
}

func TestCommandCategoryNoArgs(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/categoria")

	require.Equal(t, "🏷️ Use: /categoria alimentação", lastReply(t, sink))
}

func TestCommandCategoryNoMatch(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/categoria lazer")

	require.Contains(t, lastReply(t, sink), "Nenhum gasto em *lazer* este mês")
}

func TestCommandLargest(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "50.00", "alimentação", 7)
	seedEntry(t, store, testNow, "aluguel", "1200.00", "casa", 7)

	runCommand(b, "/maior")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Maior Gasto do Mês")
	require.Contains(t, reply, "aluguel")
	require.Contains(t, reply, "R$ 1200.00")
	require.Contains(t, reply, "15/03/2025")
}

func TestCommandAverage(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "150.00", "alimentação", 7)

	runCommand(b, "/media")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Média Diária")
	require.Contains(t, reply, "Dias decorridos: 15")
	require.Contains(t, reply, "Média: R$ 10.00/dia")
}

func TestCommandGoal(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)

	runCommand(b, "/meta")
	require.Contains(t, lastReply(t, sink), "Definir Meta")

	runCommand(b, "/meta 2000")
	require.Contains(t, lastReply(t, sink), "Meta definida!")

	runCommand(b, "/meta")
	require.Contains(t, lastReply(t, sink), "Meta Atual")

	goal, ok, err := b.settings.Goal(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2000.00", goal.StringFixed(2))
}

func TestCommandGoalInvalid(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)

	runCommand(b, "/meta abc")
	require.Equal(t, "🎯 Use: /meta 2000", lastReply(t, sink))

	runCommand(b, "/meta -50")
	require.Equal(t, "🎯 Use: /meta 2000", lastReply(t, sink))
}

func TestCommandGoalAcceptsComma(t *testing.T) {
	t.Parallel()

	b, _, _ := commandBot(t)
	runCommand(b, "/meta 2500,50")

	goal, ok, err := b.settings.Goal(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2500.50", goal.StringFixed(2))
}

func TestCommandRemaining(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	require.NoError(t, b.settings.SetGoal(7, decimal.NewFromInt(1000)))
	seedEntry(t, store, testNow, "mercado", "200.00", "alimentação", 7)

	runCommand(b, "/restante")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Restante: R$ 800.00")
	require.Contains(t, reply, "Dias restantes: 16")
	require.Contains(t, reply, "Pode gastar: R$ 50.00/dia")
}

func TestCommandRemainingNoGoal(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/restante")

	require.Equal(t, "🎯 Defina uma meta primeiro: /meta 2000", lastReply(t, sink))
}

func TestCommandRemainingExceeded(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	require.NoError(t, b.settings.SetGoal(7, decimal.NewFromInt(500)))
	seedEntry(t, store, testNow, "aluguel", "700.00", "casa", 7)

	runCommand(b, "/restante")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Meta Ultrapassada!")
	require.Contains(t, reply, "R$ 200.00 a mais")
}

func TestCommandAlertToggle(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)

	runCommand(b, "/alerta")
	require.Equal(t, "🔔 Alertas desativados!", lastReply(t, sink))

	runCommand(b, "/alerta")
	require.Equal(t, "🔔 Alertas ativados!", lastReply(t, sink))
}

func TestCommandUndo(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "50.00", "alimentação", 7)
	seedEntry(t, store, testNow, "uber", "20.00", "transporte", 8)

	runCommand(b, "/deletar")
	require.Equal(t, "🗑️ Último gasto deletado com sucesso!", lastReply(t, sink))

	// Global scope removed chat 8's entry, the most recent overall.
	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "mercado", entries[0].Description)
}

func TestCommandUndoSenderScope(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	store := ledger.NewMemoryStore()
	cfg := testConfig()
	cfg.UndoScope = config.UndoSender
	b := newTestBot(t, cfg, &fakeSource{}, sink, store)

	seedEntry(t, store, testNow, "da ana", "50.00", "alimentação", 7)
	seedEntry(t, store, testNow, "do bruno", "20.00", "transporte", 8)

	runCommand(b, "/deletar")

	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "do bruno", entries[0].Description)
}

func TestCommandUndoEmpty(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/deletar")

	require.Equal(t, "🗑️ Nenhum gasto para deletar", lastReply(t, sink))
}

func TestCommandReport(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "60.00", "alimentação", 7)
	seedEntry(t, store, testNow, "uber", "40.00", "transporte", 7)

	runCommand(b, "/relatorio")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Relatório do Mês")
	require.Contains(t, reply, "Total: R$ 100.00")
	require.Contains(t, reply, "Gastos: 2")
	require.Contains(t, reply, "Média: R$ 50.00")
	require.Contains(t, reply, "1. Alimentação: R$ 60.00")
	require.Contains(t, reply, "2. Transporte: R$ 40.00")
}

func TestCommandRanking(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "60.00", "alimentação", 7)
	seedEntry(t, store, testNow, "uber", "40.00", "transporte", 7)
	seedEntry(t, store, testNow, "cinema", "25.00", "lazer", 7)
	seedEntry(t, store, testNow, "luz", "10.00", "casa", 7)

	runCommand(b, "/ranking")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "🥇 Alimentação: R$ 60.00")
	require.Contains(t, reply, "🥈 Transporte: R$ 40.00")
	require.Contains(t, reply, "🥉 Lazer: R$ 25.00")
	require.Contains(t, reply, "4. Casa: R$ 10.00")
}

func TestCommandCompareFirstMonth(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "100.00", "alimentação", 7)

	runCommand(b, "/comparar")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "Primeiro mês de uso!")
	require.Contains(t, reply, "03/2025: R$ 100.00")
}

func TestCommandCompare(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "150.00", "alimentação", 7)
	seedEntry(t, store, testNow.AddDate(0, -1, 0), "antigo", "100.00", "outros", 7)

	runCommand(b, "/comparar")

	reply := lastReply(t, sink)
	require.Contains(t, reply, "02/2025: R$ 100.00")
	require.Contains(t, reply, "03/2025: R$ 150.00")
	require.Contains(t, reply, "📈 Diferença: R$ 50.00 (50.0%)")
	require.Contains(t, reply, "Você gastou mais este mês")
}

func TestCommandChart(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "60.00", "alimentação", 7)
	seedEntry(t, store, testNow, "uber", "40.00", "transporte", 7)

	runCommand(b, "/grafico")

	docs := sink.sentDocuments()
	require.Len(t, docs, 1)
	require.Equal(t, "grafico_mes_2025-03.png", docs[0].filename)
	require.NotEmpty(t, docs[0].data)
	require.Contains(t, docs[0].caption, "Total: R$ 100.00")
}

func TestCommandChartWeek(t *testing.T) {
	t.Parallel()

	b, sink, store := commandBot(t)
	seedEntry(t, store, testNow, "mercado", "60.00", "alimentação", 7)

	runCommand(b, "/grafico semana")

	docs := sink.sentDocuments()
	require.Len(t, docs, 1)
	require.Equal(t, "grafico_semana_2025-03-15.png", docs[0].filename)
}

func TestCommandChartBadPeriod(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/grafico ano")

	require.Equal(t, "📊 Use: /grafico mes ou /grafico semana", lastReply(t, sink))
}

func TestCommandChartEmptyPeriod(t *testing.T) {
	t.Parallel()

	b, sink, _ := commandBot(t)
	runCommand(b, "/grafico")

	require.Equal(t, "📊 Nenhum gasto no período para o gráfico", lastReply(t, sink))
	require.Empty(t, sink.sentDocuments())
}

func TestCommandsDoNotWriteLedger(t *testing.T) {
	t.Parallel()

	b, _, store := commandBot(t)
	runCommand(b, "/saldo")
	runCommand(b, "/hoje")
	runCommand(b, "/relatorio")

	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Empty(t, b.writes)
}
