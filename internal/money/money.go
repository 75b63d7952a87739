// Package money converts between major currency units (e.g. pesos) used at the API
// boundary and the integer minor units (centavos) stored in the database.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MinorPerMajor is the number of minor units in one major unit.
const MinorPerMajor = 100

var (
	ErrOutOfRange  = errors.New("the amount is too large")
	ErrNotPositive = errors.New("the amount must be positive")
)

var (
	factor   = decimal.NewFromInt(MinorPerMajor)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ToMinor converts an amount in major units to minor units.
//
// The value is rounded to the nearest minor unit, halves are rounded away from zero.
func ToMinor(major decimal.Decimal) (int64, error) {
	minor := major.Mul(factor).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, ErrOutOfRange
	}

	return minor.IntPart(), nil
}

// ToMinorPositive converts like ToMinor, but rejects amounts that are
// not strictly positive after rounding.
func ToMinorPositive(major decimal.Decimal) (int64, error) {
	minor, err := ToMinor(major)
	if err != nil {
		return 0, err
	}

	if minor <= 0 {
		return 0, ErrNotPositive
	}

	return minor, nil
}

// FromMinor converts an amount in minor units to major units.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// FromMinorPtr converts like FromMinor and keeps nil values nil.
func FromMinorPtr(minor *int64) *decimal.Decimal {
	if minor == nil {
		return nil
	}

	d := FromMinor(*minor)
	return &d
}
