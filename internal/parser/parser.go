// Package parser extracts a monetary amount and a cleaned description from
// free-text messages like "mercado 50" or "R$ 25,50 uber".
package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAmountNotFound is returned when the text contains no recognizable
// amount. Callers should answer with an example-bearing message.
var ErrAmountNotFound = errors.New("no amount found in text")

// MaxAmount is the exclusive upper bound for accepted amounts. Anything at
// or above it is treated the same as an unrecognizable amount.
var MaxAmount = decimal.New(1, 9) // 10^9

// amountRegex matches amounts like "50", "25.50" and "25,50" anywhere in
// the text.
var amountRegex = regexp.MustCompile(`\d+(?:[.,]\d{1,2})?`)

// currencyRegex matches the currency markers stripped before the amount
// search and removed from descriptions.
var currencyRegex = regexp.MustCompile(`(?i)r\$|\breais\b|\breal\b`)

// Expense is a successfully extracted amount/description pair. The
// description may be empty.
type Expense struct {
	Amount      decimal.Decimal
	Description string
}

// Extract finds the first amount in the text and returns it together with
// the leftover description. The amount search runs on the text with
// currency markers removed; the description is built from the original
// text minus the matched amount and the currency markers.
func Extract(text string) (*Expense, error) {
	stripped := currencyRegex.ReplaceAllString(text, "")

	match := amountRegex.FindString(stripped)
	if match == "" {
		return nil, ErrAmountNotFound
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ",", "."))
	if err != nil {
		return nil, ErrAmountNotFound
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return nil, ErrAmountNotFound
	}

	desc := strings.Replace(text, match, "", 1)
	desc = currencyRegex.ReplaceAllString(desc, "")
	desc = strings.Join(strings.Fields(desc), " ")

	return &Expense{Amount: amount, Description: desc}, nil
}
