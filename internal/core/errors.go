package core

import (
	"errors"
	"fmt"
)

// ErrDivisionUndefined is returned when a percentage is requested against a
// zero total. Callers decide how to present it.
var ErrDivisionUndefined = errors.New("percentage undefined: total is zero")

// ParseError reports a stored record field that failed validation.
type ParseError struct {
	Index int // position in the stored list, -1 when unknown
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("record %d: parse %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
