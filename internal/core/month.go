package core

import (
	"strings"
	"time"
)

// Direction of a month navigation step.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// ParseDirection maps the navigation names used by clients.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "forward":
		return Forward, true
	case "prev", "previous", "backward":
		return Backward, true
	default:
		return 0, false
	}
}

// NavigateMonth moves ref by exactly one calendar month. A day that does not
// exist in the target month is clamped to its last day (Jan 31 -> Feb 28).
func NavigateMonth(ref Date, dir Direction) Date {
	step := 1
	if dir < 0 {
		step = -1
	}
	first := time.Date(ref.Year(), time.Month(ref.Month()+step), 1, 0, 0, 0, 0, time.UTC)
	day := ref.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

// NextMonth is NavigateMonth(ref, Forward).
func NextMonth(ref Date) Date { return NavigateMonth(ref, Forward) }

// PrevMonth is NavigateMonth(ref, Backward).
func PrevMonth(ref Date) Date { return NavigateMonth(ref, Backward) }

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
