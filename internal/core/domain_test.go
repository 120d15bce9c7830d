package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateInMonth(t *testing.T) {
	d := NewDate(2023, 5, 31)
	if !d.InMonth(2023, 5) {
		t.Fatalf("expected 2023-05-31 in May 2023")
	}
	if d.InMonth(2023, 6) || d.InMonth(2022, 5) {
		t.Fatalf("date leaked into another month")
	}
	if (Date{}).InMonth(1, 1) {
		t.Fatalf("zero date must not match any month")
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	instant := time.Date(2023, 5, 1, 1, 30, 0, 0, time.UTC)
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	if got := DateOf(instant, time.UTC); got != NewDate(2023, 5, 1) {
		t.Fatalf("UTC date = %v", got.Time)
	}
	if got := DateOf(instant, saoPaulo); got != NewDate(2023, 4, 30) {
		t.Fatalf("BRT date = %v", got.Time)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero must be a valid amount, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
	if err := (Money{Cents: MaxAmountCents}).Validate(); err != nil {
		t.Fatalf("max amount must be valid, got %v", err)
	}
	if err := (Money{Cents: MaxAmountCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount above the cap, got %v", err)
	}
}

func TestParseTransactionType(t *testing.T) {
	for _, in := range []string{"positive", " negative "} {
		if _, err := ParseTransactionType(in); err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
	}
	for _, in := range []string{"", "up", "Positive"} {
		if _, err := ParseTransactionType(in); !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%q: expected ErrInvalidType, got %v", in, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "1",
		Type:     Negative,
		Name:     "Pizza",
		Amount:   Money{Cents: 4590},
		Category: "food",
		Date:     NewDate(2023, 5, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	mutate := func(f func(*Transaction)) Transaction {
		tx := good
		f(&tx)
		return tx
	}
	bads := []struct {
		tx   Transaction
		want error
	}{
		{mutate(func(tx *Transaction) { tx.ID = " " }), ErrEmptyID},
		{mutate(func(tx *Transaction) { tx.Type = "other" }), ErrInvalidType},
		{mutate(func(tx *Transaction) { tx.Name = "" }), ErrEmptyName},
		{mutate(func(tx *Transaction) { tx.Name = strings.Repeat("x", 201) }), ErrNameTooLong},
		{mutate(func(tx *Transaction) { tx.Amount = Money{Cents: -5} }), ErrInvalidAmount},
		{mutate(func(tx *Transaction) { tx.Category = "" }), ErrEmptyCategory},
		{mutate(func(tx *Transaction) { tx.Date = Date{} }), ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseError(t *testing.T) {
	err := error(&ParseError{Index: 3, Field: "amount", Value: "abc", Err: ErrInvalidAmount})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("ParseError must unwrap to its cause")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Index != 3 {
		t.Fatalf("errors.As failed: %v", err)
	}
	if !strings.Contains(err.Error(), "record 3") {
		t.Fatalf("message missing record index: %s", err)
	}
}
