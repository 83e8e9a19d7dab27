package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gbarbosa/gastos-bot/internal/ledger"
	"github.com/gbarbosa/gastos-bot/internal/logger"
	"github.com/gbarbosa/gastos-bot/internal/models"
	"github.com/gbarbosa/gastos-bot/internal/report"
)

// splitCommand strips the leading slash and optional @botname suffix and
// returns the lowercased command name plus trimmed arguments.
func splitCommand(text string) (string, string) {
	text = strings.TrimPrefix(text, "/")
	name, args, _ := strings.Cut(text, " ")
	if at := strings.Index(name, "@"); at != -1 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(args)
}

// handleCommand routes a /command to its handler.
func (b *Bot) handleCommand(ctx context.Context, update models.Update, text string) {
	name, args := splitCommand(text)

	switch name {
	case "start":
		b.handleStart(ctx, update)
	case "ajuda", "help":
		b.handleHelp(ctx, update)
	case "saldo":
		b.handleBalance(ctx, update)
	case "hoje":
		b.handleToday(ctx, update)
	case "semana":
		b.handleWeek(ctx, update)
	case "categoria":
		b.handleCategory(ctx, update, args)
	case "maior":
		b.handleLargest(ctx, update)
	case "media":
		b.handleAverage(ctx, update)
	case "meta":
		b.handleGoal(ctx, update, args)
	case "restante":
		b.handleRemaining(ctx, update)
	case "alerta":
		b.handleAlertToggle(ctx, update)
	case "deletar":
		b.handleUndo(ctx, update)
	case "relatorio":
		b.handleReport(ctx, update)
	case "ranking":
		b.handleRanking(ctx, update)
	case "comparar":
		b.handleCompare(ctx, update)
	case "grafico":
		b.handleChart(ctx, update, args)
	default:
		b.reply(ctx, update.ChatID, "❓ Comando não reconhecido. Use /ajuda para ver os comandos disponíveis.")
	}
}

// loadEntries reads the whole ledger, replying with a generic error on
// failure.
func (b *Bot) loadEntries(ctx context.Context, chatID int64) ([]models.Entry, bool) {
	entries, err := b.store.Entries(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to read ledger")
		b.reply(ctx, chatID, "❌ Erro ao consultar os gastos. Tente novamente.")
		return nil, false
	}
	return entries, true
}

func (b *Bot) handleStart(ctx context.Context, update models.Update) {
	greeting := ""
	if update.FirstName != "" {
		greeting = " " + update.FirstName
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf(`🤖 *Olá%s!*

✅ Bot Controle de Gastos ativo!

*📝 Registrar gastos:*
• mercado 50
• uber 25.50
• R$ 100 farmácia

*📊 Comandos principais:*
• /saldo - Total do mês
• /hoje - Gastos de hoje
• /semana - Gastos da semana
• /ajuda - Todos os comandos

Digite qualquer gasto para começar! 💰`, greeting))
}

func (b *Bot) handleHelp(ctx context.Context, update models.Update) {
	b.reply(ctx, update.ChatID, `🤖 *Comandos Disponíveis*

📝 *Registrar gastos:*
• mercado 50, uber 25.50, R$ 100 farmácia

📊 *Consultas:*
• /saldo - Total do mês
• /hoje - Gastos de hoje
• /semana - Gastos da semana
• /categoria alimentação - Por categoria
• /maior - Maior gasto do mês
• /media - Média diária

🎯 *Metas:*
• /meta 2000 - Definir meta
• /restante - Quanto falta
• /alerta - Ativar/desativar alertas

🗑️ *Gerenciar:*
• /deletar - Remove último gasto

📈 *Relatórios:*
• /relatorio - Resumo completo
• /ranking - Top categorias
• /comparar - Mês atual vs anterior
• /grafico - Gráfico por categoria`)
}

func (b *Bot) handleBalance(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	now := b.now()
	total := report.Total(report.FilterMonth(entries, now))
	month := now.Format("01/2006")

	goal, hasGoal, err := b.settings.Goal(update.ChatID)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to read goal")
	}
	if !hasGoal || goal.IsZero() {
		b.reply(ctx, update.ChatID, fmt.Sprintf("💰 *Saldo %s*\n\nTotal gasto: R$ %s\n\n💡 Defina uma meta: /meta 2000", month, total.StringFixed(2)))
		return
	}

	pct := total.Div(goal).Mul(hundred)
	status := "🟢"
	if pct.GreaterThanOrEqual(alertThreshold) {
		status = "🔴"
	} else if pct.GreaterThanOrEqual(decimal.NewFromInt(70)) {
		status = "🟡"
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf(`💰 *Saldo %s*

Total gasto: R$ %s
Meta mensal: R$ %s
%s %s%% da meta
Restante: R$ %s`,
		month, total.StringFixed(2), goal.StringFixed(2), status, pct.StringFixed(1), goal.Sub(total).StringFixed(2)))
}

func (b *Bot) handleToday(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	today := report.FilterDay(entries, b.now())
	if len(today) == 0 {
		b.reply(ctx, update.ChatID, "📅 *Gastos de Hoje*\n\n✅ Nenhum gasto registrado hoje!")
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 *Gastos de Hoje*\n\n")
	for _, e := range today {
		sb.WriteString(fmt.Sprintf("• %s - R$ %s\n", e.Description, e.FormattedAmount()))
	}
	sb.WriteString(fmt.Sprintf("\n💰 *Total: R$ %s*", report.Total(today).StringFixed(2)))
	b.reply(ctx, update.ChatID, sb.String())
}

func (b *Bot) handleWeek(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	week := report.FilterWeek(entries, b.now())
	if len(week) == 0 {
		b.reply(ctx, update.ChatID, "📅 *Gastos da Semana*\n\n✅ Nenhum gasto esta semana!")
		return
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf("📅 *Gastos da Semana*\n\nTotal de gastos: %d\n💰 *Total: R$ %s*",
		len(week), report.Total(week).StringFixed(2)))
}

func (b *Bot) handleCategory(ctx context.Context, update models.Update, args string) {
	if args == "" {
		b.reply(ctx, update.ChatID, "🏷️ Use: /categoria alimentação")
		return
	}

	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	wanted := strings.ToLower(args)
	var matched []models.Entry
	for _, e := range report.FilterMonth(entries, b.now()) {
		if strings.Contains(strings.ToLower(e.Category), wanted) {
			matched = append(matched, e)
		}
	}

	if len(matched) == 0 {
		b.reply(ctx, update.ChatID, fmt.Sprintf("🏷️ Nenhum gasto em *%s* este mês", wanted))
		return
	}

	// Show only the most recent entries, the way the totals stay readable.
	listed := matched
	if len(listed) > 10 {
		listed = listed[len(listed)-10:]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏷️ *%s*\n\n", titleCase(wanted)))
	for _, e := range listed {
		sb.WriteString(fmt.Sprintf("• %s - R$ %s\n", e.Description, e.FormattedAmount()))
	}
	sb.WriteString(fmt.Sprintf("\n💰 *Total: R$ %s*", report.Total(matched).StringFixed(2)))
	b.reply(ctx, update.ChatID, sb.String())
}

func (b *Bot) handleLargest(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	largest, found := report.Largest(report.FilterMonth(entries, b.now()))
	if !found {
		b.reply(ctx, update.ChatID, "💎 Nenhum gasto registrado este mês")
		return
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf(`💎 *Maior Gasto do Mês*

%s
💰 R$ %s
📅 %s
🏷️ %s`, largest.Description, largest.FormattedAmount(), largest.Date.Format(models.DateLayout), titleCase(largest.Category)))
}

func (b *Bot) handleAverage(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	now := b.now()
	month := report.FilterMonth(entries, now)
	if len(month) == 0 {
		b.reply(ctx, update.ChatID, "📊 Nenhum gasto para calcular média")
		return
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf("📊 *Média Diária*\n\nTotal do mês: R$ %s\nDias decorridos: %d\n💰 *Média: R$ %s/dia*",
		report.Total(month).StringFixed(2), now.Day(), report.DailyAverage(month, now).StringFixed(2)))
}

func (b *Bot) handleGoal(ctx context.Context, update models.Update, args string) {
	if args == "" {
		goal, hasGoal, err := b.settings.Goal(update.ChatID)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to read goal")
		}
		if hasGoal && !goal.IsZero() {
			b.reply(ctx, update.ChatID, fmt.Sprintf("🎯 *Meta Atual*\n\nR$ %s\n\n💡 Para alterar: /meta 2500", goal.StringFixed(2)))
			return
		}
		b.reply(ctx, update.ChatID, "🎯 *Definir Meta*\n\nUse: /meta 2000\n\n💡 Ajuda a controlar seus gastos!")
		return
	}

	goal, err := decimal.NewFromString(strings.ReplaceAll(args, ",", "."))
	if err != nil || goal.LessThanOrEqual(decimal.Zero) {
		b.reply(ctx, update.ChatID, "🎯 Use: /meta 2000")
		return
	}

	if err := b.settings.SetGoal(update.ChatID, goal); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to save goal")
		b.reply(ctx, update.ChatID, "❌ Erro ao salvar a meta")
		return
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf("🎯 *Meta definida!*\n\nMeta mensal: R$ %s\n\n💡 Use /saldo para acompanhar o progresso", goal.StringFixed(2)))
}

func (b *Bot) handleRemaining(ctx context.Context, update models.Update) {
	goal, hasGoal, err := b.settings.Goal(update.ChatID)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to read goal")
	}
	if !hasGoal || goal.IsZero() {
		b.reply(ctx, update.ChatID, "🎯 Defina uma meta primeiro: /meta 2000")
		return
	}

	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	now := b.now()
	total := report.Total(report.FilterMonth(entries, now))
	remaining := goal.Sub(total)

	if remaining.LessThanOrEqual(decimal.Zero) {
		b.reply(ctx, update.ChatID, fmt.Sprintf("🚨 *Meta Ultrapassada!*\n\nVocê gastou R$ %s a mais que sua meta de R$ %s",
			remaining.Abs().StringFixed(2), goal.StringFixed(2)))
		return
	}

	days := report.RemainingDays(now)
	perDay := decimal.Zero
	if days > 0 {
		perDay = remaining.DivRound(decimal.NewFromInt(int64(days)), 2)
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf(`💰 *Restante da Meta*

Gasto atual: R$ %s
Meta: R$ %s
✅ Restante: R$ %s

📅 Dias restantes: %d
📊 Pode gastar: R$ %s/dia`,
		total.StringFixed(2), goal.StringFixed(2), remaining.StringFixed(2), days, perDay.StringFixed(2)))
}

func (b *Bot) handleAlertToggle(ctx context.Context, update models.Update) {
	enabled, err := b.settings.ToggleAlerts(update.ChatID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to toggle alerts")
		b.reply(ctx, update.ChatID, "❌ Erro ao atualizar alertas")
		return
	}

	status := "desativados"
	if enabled {
		status = "ativados"
	}
	b.reply(ctx, update.ChatID, "🔔 Alertas "+status+"!")
}

func (b *Bot) handleUndo(ctx context.Context, update models.Update) {
	err := b.store.DeleteLast(ctx, b.undoScope(update.ChatID))
	switch {
	case errors.Is(err, ledger.ErrEmpty):
		b.reply(ctx, update.ChatID, "🗑️ Nenhum gasto para deletar")
	case err != nil:
		logger.Log.Error().Err(err).Msg("Failed to delete last entry")
		b.reply(ctx, update.ChatID, "❌ Erro ao deletar gasto")
	default:
		b.reply(ctx, update.ChatID, "🗑️ Último gasto deletado com sucesso!")
	}
}

func (b *Bot) handleReport(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	month := report.FilterMonth(entries, b.now())
	if len(month) == 0 {
		b.reply(ctx, update.ChatID, "📊 Nenhum gasto este mês para gerar relatório")
		return
	}

	total := report.Total(month)
	average := total.DivRound(decimal.NewFromInt(int64(len(month))), 2)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Relatório do Mês*\n\n💰 Total: R$ %s\n📝 Gastos: %d\n📊 Média: R$ %s\n\n🏆 *Top Categorias:*\n",
		total.StringFixed(2), len(month), average.StringFixed(2)))

	ranking := report.ByCategory(month)
	if len(ranking) > 5 {
		ranking = ranking[:5]
	}
	for i, ct := range ranking {
		sb.WriteString(fmt.Sprintf("%d. %s: R$ %s\n", i+1, titleCase(ct.Category), ct.Total.StringFixed(2)))
	}

	b.reply(ctx, update.ChatID, sb.String())
}

func (b *Bot) handleRanking(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	ranking := report.ByCategory(report.FilterMonth(entries, b.now()))
	if len(ranking) == 0 {
		b.reply(ctx, update.ChatID, "🏆 Nenhum gasto para ranking")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Ranking de Categorias*\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, ct := range ranking {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %s: R$ %s\n", prefix, titleCase(ct.Category), ct.Total.StringFixed(2)))
	}

	b.reply(ctx, update.ChatID, sb.String())
}

func (b *Bot) handleCompare(ctx context.Context, update models.Update) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	now := b.now()
	previous := report.PreviousMonth(now)
	current := report.Total(report.FilterMonth(entries, now))
	before := report.Total(report.FilterMonth(entries, previous))

	currentLabel := now.Format("01/2006")
	previousLabel := previous.Format("01/2006")

	if before.IsZero() {
		b.reply(ctx, update.ChatID, fmt.Sprintf("📊 *Comparação Mensal*\n\n%s: R$ %s\n\n💡 Primeiro mês de uso!",
			currentLabel, current.StringFixed(2)))
		return
	}

	diff := current.Sub(before)
	pct := diff.Div(before).Mul(hundred)
	trend := "📉"
	verdict := "Você economizou este mês"
	if diff.GreaterThan(decimal.Zero) {
		trend = "📈"
		verdict = "Você gastou mais este mês"
	}

	b.reply(ctx, update.ChatID, fmt.Sprintf(`📊 *Comparação Mensal*

%s: R$ %s
%s: R$ %s

%s Diferença: R$ %s (%s%%)
%s`,
		previousLabel, before.StringFixed(2), currentLabel, current.StringFixed(2),
		trend, diff.Abs().StringFixed(2), pct.Abs().StringFixed(1), verdict))
}

func (b *Bot) handleChart(ctx context.Context, update models.Update, args string) {
	entries, ok := b.loadEntries(ctx, update.ChatID)
	if !ok {
		return
	}

	now := b.now()
	var (
		filtered []models.Entry
		title    string
		filename string
	)
	switch strings.ToLower(args) {
	case "semana":
		filtered = report.FilterWeek(entries, now)
		title = "Gastos da Semana"
		filename = "grafico_semana_" + now.Format("2006-01-02") + ".png"
	case "", "mes":
		filtered = report.FilterMonth(entries, now)
		title = "Gastos de " + now.Format("01/2006")
		filename = "grafico_mes_" + now.Format("2006-01") + ".png"
	default:
		b.reply(ctx, update.ChatID, "📊 Use: /grafico mes ou /grafico semana")
		return
	}

	if len(filtered) == 0 {
		b.reply(ctx, update.ChatID, "📊 Nenhum gasto no período para o gráfico")
		return
	}

	png, err := report.Chart(filtered, title)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to generate chart")
		b.reply(ctx, update.ChatID, "❌ Erro ao gerar gráfico")
		return
	}

	caption := fmt.Sprintf("📊 %s\n💰 Total: R$ %s", title, report.Total(filtered).StringFixed(2))
	if err := b.sink.SendDocument(ctx, update.ChatID, filename, png, caption); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send chart")
		b.reply(ctx, update.ChatID, "❌ Erro ao enviar gráfico")
	}
}
