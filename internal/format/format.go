// Package format renders money and calendar dates for one pinned locale.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"financecontroller/internal/core"
)

// calendar holds the month names and date patterns of a language.
type calendar struct {
	months    [12]string
	dayMonth  func(day int, month string) string
	monthYear func(month string, year int) string
	shortDate string
}

var calendars = map[language.Base]calendar{
	mustBase("pt"): {
		months: [12]string{"janeiro", "fevereiro", "março", "abril", "maio", "junho",
			"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
		dayMonth:  func(d int, m string) string { return fmt.Sprintf("%d de %s", d, m) },
		monthYear: func(m string, y int) string { return fmt.Sprintf("%s, %d", m, y) },
		shortDate: "02/01/06",
	},
	mustBase("en"): {
		months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		dayMonth:  func(d int, m string) string { return fmt.Sprintf("%s %d", m, d) },
		monthYear: func(m string, y int) string { return fmt.Sprintf("%s %d", m, y) },
		shortDate: "01/02/06",
	},
	mustBase("it"): {
		months: [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
			"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
		dayMonth:  func(d int, m string) string { return fmt.Sprintf("%d %s", d, m) },
		monthYear: func(m string, y int) string { return fmt.Sprintf("%s %d", m, y) },
		shortDate: "02/01/06",
	},
}

func mustBase(s string) language.Base {
	b, err := language.ParseBase(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Locale formats amounts in a fixed currency and dates with a fixed calendar.
// It is safe for concurrent use.
type Locale struct {
	tag     language.Tag
	unit    currency.Unit
	printer *message.Printer
	cal     calendar
}

// New builds a Locale from a BCP 47 tag such as "pt-BR" and an ISO 4217 code
// such as "BRL". Languages without a calendar table fall back to Portuguese
// month names.
func New(locale, currencyCode string) (*Locale, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	base, _ := tag.Base()
	cal, ok := calendars[base]
	if !ok {
		cal = calendars[mustBase("pt")]
	}
	return &Locale{
		tag:     tag,
		unit:    unit,
		printer: message.NewPrinter(tag),
		cal:     cal,
	}, nil
}

// MustNew is New for static configuration; it panics on error.
func MustNew(locale, currencyCode string) *Locale {
	l, err := New(locale, currencyCode)
	if err != nil {
		panic(err)
	}
	return l
}

// Tag returns the configured language tag.
func (l *Locale) Tag() language.Tag { return l.tag }

// CurrencyCode returns the ISO code of the configured currency.
func (l *Locale) CurrencyCode() string { return l.unit.String() }

// Currency renders m with the currency symbol and the locale's separators,
// e.g. "R$ 1.234,56". Negative amounts get a leading minus sign.
func (l *Locale) Currency(m core.Money) string {
	if m.Cents < 0 {
		return "-" + l.Currency(m.Abs())
	}
	return l.printer.Sprint(currency.Symbol(l.unit.Amount(m.Float())))
}

// DayMonth renders the day and month name, e.g. "15 de maio".
func (l *Locale) DayMonth(d core.Date) string {
	return l.cal.dayMonth(d.Day(), l.MonthName(d.Month()))
}

// ShortDate renders a compact date, e.g. "15/05/23".
func (l *Locale) ShortDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(l.cal.shortDate)
}

// MonthYear renders a month heading, e.g. "maio, 2023".
func (l *Locale) MonthYear(year, month int) string {
	return l.cal.monthYear(l.MonthName(month), year)
}

// MonthName returns the lower or title case month name used by the locale.
// Out of range months yield an empty string.
func (l *Locale) MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return l.cal.months[month-1]
}
