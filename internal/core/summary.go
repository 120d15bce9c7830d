package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Labels shown when a transaction type has no history.
const (
	NoEntriesLabel  = "Não há transações de entrada"
	NoExpensesLabel = "Não há transações de saída"
)

var hundred = decimal.NewFromInt(100)

// Formatter renders amounts and dates for a pinned locale.
type Formatter interface {
	Currency(m Money) string
	DayMonth(d Date) string
}

// HighlightSummary is the all-time figure for one transaction type.
type HighlightSummary struct {
	Amount               Money
	AmountFormatted      string
	LastTransaction      Date // zero when there is none
	LastTransactionLabel string
}

// HasTransactions reports whether a last transaction date exists.
func (h HighlightSummary) HasTransactions() bool {
	return !h.LastTransaction.IsZero()
}

// TypeSummary groups the dashboard highlights.
type TypeSummary struct {
	Entries  HighlightSummary
	Expenses HighlightSummary
	Total    HighlightSummary
}

// CategorySummary is the monthly expense figure for one category.
type CategorySummary struct {
	Key            string
	Name           string
	Color          string
	Total          Money
	TotalFormatted string
	PercentValue   int
	Percent        string // e.g. "42%"
}

// SummarizeByType totals income and expenses over the whole history and
// labels each with the date of its most recent transaction.
func SummarizeByType(txs []Transaction, f Formatter) TypeSummary {
	var entries, expenses Money
	var lastEntry, lastExpense Date

	for _, t := range txs {
		switch t.Type {
		case Positive:
			entries.Cents += t.Amount.Cents
			if t.Date.After(lastEntry.Time) {
				lastEntry = t.Date
			}
		case Negative:
			expenses.Cents += t.Amount.Cents
			if t.Date.After(lastExpense.Time) {
				lastExpense = t.Date
			}
		}
	}

	summary := TypeSummary{
		Entries: HighlightSummary{
			Amount:               entries,
			AmountFormatted:      f.Currency(entries),
			LastTransaction:      lastEntry,
			LastTransactionLabel: NoEntriesLabel,
		},
		Expenses: HighlightSummary{
			Amount:               expenses,
			AmountFormatted:      f.Currency(expenses),
			LastTransaction:      lastExpense,
			LastTransactionLabel: NoExpensesLabel,
		},
	}
	total := entries.Sub(expenses)
	summary.Total = HighlightSummary{
		Amount:               total,
		AmountFormatted:      f.Currency(total),
		LastTransaction:      lastExpense,
		LastTransactionLabel: NoExpensesLabel,
	}

	if !lastEntry.IsZero() {
		summary.Entries.LastTransactionLabel = "Última entrada dia " + f.DayMonth(lastEntry)
	}
	if !lastExpense.IsZero() {
		day := f.DayMonth(lastExpense)
		summary.Expenses.LastTransactionLabel = "Última saída dia " + day
		summary.Total.LastTransactionLabel = "1 a " + day
	}
	return summary
}

// SummarizeByCategory breaks down one month's expenses by category, in table
// order. Categories without spending are omitted and transactions whose
// category is not in the table are ignored.
//
// When the month has no expenses the result is empty and the error is
// ErrDivisionUndefined.
func SummarizeByCategory(txs []Transaction, year, month int, table []CategoryDescriptor, f Formatter) ([]CategorySummary, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	var total Money
	byKey := make(map[string]int64)
	for _, t := range txs {
		if t.Type != Negative || !t.Date.InMonth(year, month) {
			continue
		}
		total.Cents += t.Amount.Cents
		byKey[t.Category] += t.Amount.Cents
	}
	if total.Cents == 0 {
		return []CategorySummary{}, ErrDivisionUndefined
	}

	out := make([]CategorySummary, 0, len(table))
	for _, c := range table {
		sum := Money{Cents: byKey[c.Key]}
		if sum.Cents <= 0 {
			continue
		}
		pct, err := Percent(sum, total)
		if err != nil {
			return nil, err
		}
		out = append(out, CategorySummary{
			Key:            c.Key,
			Name:           c.Name,
			Color:          c.Color,
			Total:          sum,
			TotalFormatted: f.Currency(sum),
			PercentValue:   pct,
			Percent:        FormatPercent(pct),
		})
	}
	return out, nil
}

// Percent returns part/whole*100 rounded half up to an integer.
func Percent(part, whole Money) (int, error) {
	if whole.Cents <= 0 {
		return 0, ErrDivisionUndefined
	}
	p := decimal.NewFromInt(part.Cents).Mul(hundred).DivRound(decimal.NewFromInt(whole.Cents), 0)
	return int(p.IntPart()), nil
}

func FormatPercent(p int) string {
	return strconv.Itoa(p) + "%"
}
