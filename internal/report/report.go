// Package report computes ledger aggregates for the query commands. All
// functions are pure over a slice of entries so they can be tested without
// a store.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gbarbosa/gastos-bot/internal/models"
)

// CategoryTotal is one category's share of the total.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Total sums all entry amounts.
func Total(entries []models.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// FilterDay keeps entries on the given calendar day.
func FilterDay(entries []models.Entry, day time.Time) []models.Entry {
	var out []models.Entry
	for _, e := range entries {
		if e.SameDay(day) {
			out = append(out, e)
		}
	}
	return out
}

// FilterWeek keeps entries in the week containing now, Monday to Sunday.
func FilterWeek(entries []models.Entry, now time.Time) []models.Entry {
	offset := int(now.Weekday()+6) % 7 // days since Monday
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 7)

	var out []models.Entry
	for _, e := range entries {
		d := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, now.Location())
		if !d.Before(start) && d.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// FilterMonth keeps entries in the calendar month of now.
func FilterMonth(entries []models.Entry, now time.Time) []models.Entry {
	var out []models.Entry
	for _, e := range entries {
		if e.SameMonth(now) {
			out = append(out, e)
		}
	}
	return out
}

// PreviousMonth returns a time inside the month before now.
func PreviousMonth(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, 0, -1)
}

// ByCategory aggregates totals per category, largest first. Ties break by
// label so the order is deterministic.
func ByCategory(entries []models.Entry) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Largest returns the single biggest entry, or false when there are none.
func Largest(entries []models.Entry) (models.Entry, bool) {
	if len(entries) == 0 {
		return models.Entry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Amount.GreaterThan(best.Amount) {
			best = e
		}
	}
	return best, true
}

// DailyAverage divides the total of the month's entries by the number of
// elapsed days.
func DailyAverage(monthEntries []models.Entry, now time.Time) decimal.Decimal {
	days := int64(now.Day())
	if days == 0 {
		return decimal.Zero
	}
	return Total(monthEntries).DivRound(decimal.NewFromInt(days), 2)
}

// RemainingDays returns the days left in the month of now, excluding
// today.
func RemainingDays(now time.Time) int {
	firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	lastDay := firstOfNext.AddDate(0, 0, -1).Day()
	return lastDay - now.Day()
}
