package format

import (
	"strings"
	"testing"

	"financecontroller/internal/core"
)

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("not a locale!", "BRL"); err == nil {
		t.Fatalf("expected error for malformed locale")
	}
	if _, err := New("pt-BR", "XX"); err == nil {
		t.Fatalf("expected error for malformed currency")
	}
}

func TestCurrencyPortuguese(t *testing.T) {
	l := MustNew("pt-BR", "BRL")

	got := l.Currency(core.Money{Cents: 15000})
	if !strings.Contains(got, "R$") || !strings.Contains(got, "150,00") {
		t.Fatalf("Currency(150) = %q", got)
	}
	got = l.Currency(core.Money{Cents: 123456789})
	if !strings.Contains(got, "1.234.567,89") {
		t.Fatalf("Currency(1234567.89) = %q", got)
	}
	neg := l.Currency(core.Money{Cents: -35000})
	if !strings.HasPrefix(neg, "-") || !strings.Contains(neg, "350,00") {
		t.Fatalf("Currency(-350) = %q", neg)
	}
	big := l.Currency(core.Money{Cents: 2*core.MaxAmountCents + 1})
	if !strings.Contains(big, "200.000.000.000,01") {
		t.Fatalf("Currency(200000000000.01) = %q", big)
	}
}

func TestCurrencyEnglish(t *testing.T) {
	l := MustNew("en", "USD")
	if got := l.Currency(core.Money{Cents: 400}); got != "$ 4.00" {
		t.Fatalf("Currency(4) = %q", got)
	}
	if got := l.Currency(core.Money{Cents: -400}); got != "-$ 4.00" {
		t.Fatalf("Currency(-4) = %q", got)
	}
}

func TestDates(t *testing.T) {
	d := core.NewDate(2023, 5, 15)
	cases := []struct {
		locale              string
		dayMonth, short, my string
	}{
		{"pt-BR", "15 de maio", "15/05/23", "maio, 2023"},
		{"en-US", "May 15", "05/15/23", "May 2023"},
		{"it-IT", "15 maggio", "15/05/23", "maggio 2023"},
		{"fr-FR", "15 de maio", "15/05/23", "maio, 2023"}, // no table, falls back
	}
	for _, tc := range cases {
		l := MustNew(tc.locale, "EUR")
		if got := l.DayMonth(d); got != tc.dayMonth {
			t.Fatalf("%s DayMonth = %q, want %q", tc.locale, got, tc.dayMonth)
		}
		if got := l.ShortDate(d); got != tc.short {
			t.Fatalf("%s ShortDate = %q, want %q", tc.locale, got, tc.short)
		}
		if got := l.MonthYear(2023, 5); got != tc.my {
			t.Fatalf("%s MonthYear = %q, want %q", tc.locale, got, tc.my)
		}
	}
}

func TestMonthNameBounds(t *testing.T) {
	l := MustNew("pt-BR", "BRL")
	if l.MonthName(0) != "" || l.MonthName(13) != "" {
		t.Fatalf("out of range months must be empty")
	}
	if l.MonthName(1) != "janeiro" || l.MonthName(12) != "dezembro" {
		t.Fatalf("unexpected month names")
	}
	if l.ShortDate(core.Date{}) != "" {
		t.Fatalf("zero date must render empty")
	}
}
