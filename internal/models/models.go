// Package models defines the domain entities for the expense ledger bot.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in ledger rows and replies.
const DateLayout = "02/01/2006"

// Entry is a single persisted ledger row. Entries are created only by a
// successfully classified message and never mutated afterwards.
type Entry struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	ChatID      int64
}

// FormattedAmount returns the amount with exactly two decimal places,
// which is how it is stored in the ledger and shown to the user.
func (e Entry) FormattedAmount() string {
	return e.Amount.StringFixed(2)
}

// SameDay reports whether the entry falls on the given calendar day.
func (e Entry) SameDay(day time.Time) bool {
	y1, m1, d1 := e.Date.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether the entry falls in the given calendar month.
func (e Entry) SameMonth(day time.Time) bool {
	y1, m1, _ := e.Date.Date()
	y2, m2, _ := day.Date()
	return y1 == y2 && m1 == m2
}

// Update is one incoming message from the transport. SequenceID is the
// transport's monotonic cursor token (the Telegram update_id).
type Update struct {
	SequenceID int64
	ChatID     int64
	Text       string
	FirstName  string
}
