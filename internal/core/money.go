// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts and calendar
// dates from their stored string forms.
package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmountCents bounds a single amount (one hundred billion currency units)
// so that sums over any realistic history stay inside int64.
const MaxAmountCents int64 = 10_000_000_000_000

var (
	maxCents = decimal.NewFromInt(MaxAmountCents)

	// Digits with an optional dot fraction, or a comma fraction of at most
	// two digits. "1,000" and "1.234,56" are ambiguous and rejected.
	dotAmount   = regexp.MustCompile(`^\d{1,20}(\.\d{1,20})?$`)
	commaAmount = regexp.MustCompile(`^\d{1,20},\d{1,2}$`)
)

// ParseAmount converts a stored decimal string to Money with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount; negative values, empty strings, exponents and anything that
// is not a plain decimal number return ErrInvalidAmount. Amounts above
// MaxAmountCents are rejected too.
//
// Examples:
//
//	ParseAmount("12.34")  -> Money{1234}, nil
//	ParseAmount("12,34")  -> Money{1234}, nil
//	ParseAmount("12.345") -> Money{1235}, nil (rounds half up)
//	ParseAmount("1,000")  -> Money{}, ErrInvalidAmount
//	ParseAmount("-1")     -> Money{}, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	switch {
	case dotAmount.MatchString(s):
	case commaAmount.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.IsNegative() || cents.GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// String renders the amount in the stored numeric form, e.g. "150.00".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

// Float returns the value in currency units for display purposes.
// Use Cents for arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Sub returns m - o; the result may be negative.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseDate derives a calendar date from a stored date string.
//
// Date-only values ("2023-05-01") are taken as calendar dates verbatim.
// Timestamps are converted to loc before truncation, so one location policy
// applies to every record.
func ParseDate(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return NewDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DateOf(t, loc), nil
		}
	}
	return Date{}, ErrInvalidDate
}
