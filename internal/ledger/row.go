package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gbarbosa/gastos-bot/internal/models"
)

// Header is the exact first row every sheet-backed ledger must carry. A
// sheet with a different first row is reset before any data append.
var Header = []string{"Data", "Descrição", "Valor", "Categoria"}

// encodeRow turns an entry into the four sheet columns.
func encodeRow(entry models.Entry) []any {
	return []any{
		entry.Date.Format(models.DateLayout),
		entry.Description,
		entry.Amount.StringFixed(2),
		entry.Category,
	}
}

// decodeRow parses one sheet row back into an entry. Valor accepts both
// comma and period decimal separators.
func decodeRow(row []any) (models.Entry, error) {
	if len(row) < len(Header) {
		return models.Entry{}, fmt.Errorf("row has %d columns, want %d", len(row), len(Header))
	}

	date, err := time.Parse(models.DateLayout, cell(row[0]))
	if err != nil {
		return models.Entry{}, fmt.Errorf("bad date %q: %w", cell(row[0]), err)
	}

	raw := strings.ReplaceAll(cell(row[2]), ",", ".")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return models.Entry{}, fmt.Errorf("bad amount %q: %w", cell(row[2]), err)
	}

	return models.Entry{
		Date:        date,
		Description: cell(row[1]),
		Amount:      amount,
		Category:    cell(row[3]),
	}, nil
}

func cell(v any) string {
	s, _ := v.(string)
	return s
}
