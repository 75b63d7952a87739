package types

import (
	"errors"
	"time"
)

// Period is the recurrence of an envelope budget.
//
// swagger:enum Period
type Period string

const (
	PeriodNone    Period = "none"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

var ErrPeriodInvalid = errors.New("the period must be one of none, weekly, monthly, yearly")

// Valid reports whether p is a known period. The empty period is treated as none.
func (p Period) Valid() bool {
	switch p {
	case "", PeriodNone, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}

	return false
}

// Recurring reports whether the period repeats.
func (p Period) Recurring() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Start returns the start of the period containing t, in UTC.
// Weeks start on Monday.
//
// For non-recurring periods, the zero time is returned.
func (p Period) Start(t time.Time) time.Time {
	day := Day(t)

	switch p {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return MonthOf(day).Time()
	case PeriodYearly:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	return time.Time{}
}

// Next returns the start of the period following the one that starts at start.
func (p Period) Next(start time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case PeriodMonthly:
		return start.AddDate(0, 1, 0)
	case PeriodYearly:
		return start.AddDate(1, 0, 0)
	}

	return time.Time{}
}

// Previous returns the start of the period preceding the one that starts at start.
func (p Period) Previous(start time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return start.AddDate(0, 0, -7)
	case PeriodMonthly:
		return start.AddDate(0, -1, 0)
	case PeriodYearly:
		return start.AddDate(-1, 0, 0)
	}

	return time.Time{}
}

// Elapsed returns how many full periods have passed between start and now.
func (p Period) Elapsed(start, now time.Time) int {
	if !p.Recurring() {
		return 0
	}

	n := 0
	for next := p.Next(start); !now.Before(next); next = p.Next(next) {
		n++
	}

	return n
}
