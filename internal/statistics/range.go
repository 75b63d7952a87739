// Package statistics implements the read-only aggregations over the
// transactions and allocations of an owner.
package statistics

import (
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/types"
)

// Preset is a named date range relative to the current day.
type Preset string

const (
	PresetThisWeek   Preset = "this-week"
	PresetThisMonth  Preset = "this-month"
	PresetLastMonth  Preset = "last-month"
	PresetThisYear   Preset = "this-year"
	PresetLast30Days Preset = "last-30-days"
)

var (
	ErrPresetInvalid = models.Invalid("the preset must be one of this-week, this-month, last-month, this-year, last-30-days")
	ErrRangeInvalid  = models.Invalid("the start of the date range must not be after its end")
	ErrPeriodInvalid = models.Invalid("the recap period must be one of week, month, year")
)

// Range is a range of days. Both From and Until are included.
type Range struct {
	From  time.Time `json:"from" example:"2024-03-01T00:00:00Z"`  // First day of the range
	Until time.Time `json:"until" example:"2024-03-31T00:00:00Z"` // Last day of the range
}

// NewRange returns the range of days between from and until.
func NewRange(from, until time.Time) (Range, error) {
	r := Range{From: types.Day(from), Until: types.Day(until)}
	if r.From.After(r.Until) {
		return Range{}, ErrRangeInvalid
	}

	return r, nil
}

// end is the first instant after the range.
func (r Range) end() time.Time {
	return r.Until.AddDate(0, 0, 1)
}

// Days is the number of days in the range.
func (r Range) Days() int {
	return int(r.end().Sub(r.From).Hours() / 24)
}

// Range returns the date range of the preset for the day of now.
func (p Preset) Range(now time.Time) (Range, error) {
	today := types.Day(now)

	switch p {
	case PresetThisWeek:
		return Range{From: types.PeriodWeekly.Start(today), Until: today}, nil
	case PresetThisMonth:
		return Range{From: types.PeriodMonthly.Start(today), Until: today}, nil
	case PresetLastMonth:
		start := types.PeriodMonthly.Start(today)
		return Range{From: types.PeriodMonthly.Previous(start), Until: start.AddDate(0, 0, -1)}, nil
	case PresetThisYear:
		return Range{From: types.PeriodYearly.Start(today), Until: today}, nil
	case PresetLast30Days:
		return Range{From: today.AddDate(0, 0, -29), Until: today}, nil
	}

	return Range{}, ErrPresetInvalid
}

// RecapPeriod is the length of the periods compared in a recap.
type RecapPeriod string

const (
	RecapWeek  RecapPeriod = "week"
	RecapMonth RecapPeriod = "month"
	RecapYear  RecapPeriod = "year"
)

func (p RecapPeriod) period() (types.Period, error) {
	switch p {
	case RecapWeek:
		return types.PeriodWeekly, nil
	case RecapMonth:
		return types.PeriodMonthly, nil
	case RecapYear:
		return types.PeriodYearly, nil
	}

	return "", ErrPeriodInvalid
}

// Ranges returns the full period containing reference and the one before it.
func (p RecapPeriod) Ranges(reference time.Time) (current, previous Range, err error) {
	period, err := p.period()
	if err != nil {
		return Range{}, Range{}, err
	}

	start := period.Start(reference)
	current = Range{From: start, Until: period.Next(start).AddDate(0, 0, -1)}
	previous = Range{From: period.Previous(start), Until: start.AddDate(0, 0, -1)}

	return current, previous, nil
}
