package report

import (
	"fmt"

	"github.com/go-analyze/charts"

	"github.com/gbarbosa/gastos-bot/internal/models"
)

// Chart renders a pie chart of the entries' category breakdown. Returns
// PNG image bytes.
func Chart(entries []models.Entry, title string) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to chart")
	}

	totals := ByCategory(entries)

	values := make([]float64, 0, len(totals))
	labels := make([]string, 0, len(totals))
	for _, ct := range totals {
		values = append(values, ct.Total.InexactFloat64())
		labels = append(labels, ct.Category)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
