package v1

import (
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/money"
	"github.com/coincraft/backend/internal/statistics"
	"github.com/coincraft/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StatisticsQuery struct {
	Preset    statistics.Preset `form:"preset"`
	FromDate  time.Time         `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`
	UntilDate time.Time         `form:"untilDate" time_format:"2006-01-02" time_utc:"1"`
}

// dateRange returns the range selected by the query. A preset takes
// precedence over explicit dates.
func (q StatisticsQuery) dateRange(now time.Time) (statistics.Range, error) {
	if q.Preset != "" {
		return q.Preset.Range(now)
	}

	if q.FromDate.IsZero() || q.UntilDate.IsZero() {
		return statistics.Range{}, errRangeMissing
	}

	return statistics.NewRange(q.FromDate, q.UntilDate)
}

type CategoryTotal struct {
	CategoryID uuid.UUID           `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Name       string              `json:"name" example:"Groceries"`
	Kind       models.CategoryKind `json:"kind" example:"expense"`
	Amount     decimal.Decimal     `json:"amount" example:"412.50"`
	Percentage decimal.Decimal     `json:"percentage" example:"37.25"` // Share of the income or expense total of the range
}

type MonthTotal struct {
	Month   types.Month     `json:"month" swaggertype:"string" example:"2024-03"`
	Income  decimal.Decimal `json:"income" example:"2500"`
	Expense decimal.Decimal `json:"expense" example:"1107.32"`
}

type DayTotal struct {
	Date    time.Time       `json:"date" example:"2024-03-14T00:00:00Z"`
	Income  decimal.Decimal `json:"income" example:"0"`
	Expense decimal.Decimal `json:"expense" example:"54.10"`
}

type AllocationProgress struct {
	AllocationID  uuid.UUID             `json:"allocationId" example:"4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"`
	Name          string                `json:"name" example:"Groceries"`
	Kind          models.AllocationKind `json:"kind" example:"envelope"`
	CurrentAmount decimal.Decimal       `json:"currentAmount" example:"112.40"`
	TargetAmount  *decimal.Decimal      `json:"targetAmount" example:"400"`
	Percentage    decimal.Decimal       `json:"percentage" example:"28.1"` // Current amount as share of the target
}

type Summary struct {
	Range       statistics.Range     `json:"range"`
	Income      decimal.Decimal      `json:"income" example:"2500"`
	Expense     decimal.Decimal      `json:"expense" example:"1107.32"`
	Net         decimal.Decimal      `json:"net" example:"1392.68"`
	Expenses    []CategoryTotal      `json:"expenses"`
	Incomes     []CategoryTotal      `json:"incomes"`
	Months      []MonthTotal         `json:"months"`
	Days        []DayTotal           `json:"days"`
	Allocations []AllocationProgress `json:"allocations"`
}

func categoryTotals(totals []statistics.CategoryTotal) []CategoryTotal {
	result := make([]CategoryTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, CategoryTotal{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			Kind:       t.Kind,
			Amount:     money.FromMinor(t.Amount),
			Percentage: t.Percentage,
		})
	}

	return result
}

func newSummary(s statistics.Summary) Summary {
	summary := Summary{
		Range:       s.Range,
		Income:      money.FromMinor(s.Totals.Income),
		Expense:     money.FromMinor(s.Totals.Expense),
		Net:         money.FromMinor(s.Totals.Net),
		Expenses:    categoryTotals(s.Expenses),
		Incomes:     categoryTotals(s.Incomes),
		Months:      make([]MonthTotal, 0, len(s.Months)),
		Days:        make([]DayTotal, 0, len(s.Days)),
		Allocations: make([]AllocationProgress, 0, len(s.Allocations)),
	}

	for _, m := range s.Months {
		summary.Months = append(summary.Months, MonthTotal{
			Month:   m.Month,
			Income:  money.FromMinor(m.Income),
			Expense: money.FromMinor(m.Expense),
		})
	}

	for _, d := range s.Days {
		summary.Days = append(summary.Days, DayTotal{
			Date:    d.Date,
			Income:  money.FromMinor(d.Income),
			Expense: money.FromMinor(d.Expense),
		})
	}

	for _, a := range s.Allocations {
		summary.Allocations = append(summary.Allocations, AllocationProgress{
			AllocationID:  a.AllocationID,
			Name:          a.Name,
			Kind:          a.Kind,
			CurrentAmount: money.FromMinor(a.CurrentAmount),
			TargetAmount:  money.FromMinorPtr(a.TargetAmount),
			Percentage:    a.Percentage,
		})
	}

	return summary
}

type SummaryResponse struct {
	Data  *Summary `json:"data"`                                         // Aggregated transactions of the date range
	Error *string  `json:"error" example:"the preset must be one of..."` // The error, if any occurred
}

type RecapQuery struct {
	Period statistics.RecapPeriod `form:"period"`
	Date   time.Time              `form:"date" time_format:"2006-01-02" time_utc:"1"` // Any day of the current period. Defaults to today.
}

type Comparison struct {
	Current  decimal.Decimal `json:"current" example:"1107.32"`
	Previous decimal.Decimal `json:"previous" example:"984.10"`
	Change   decimal.Decimal `json:"change" example:"12.52"` // Change in percent
}

func newComparison(c statistics.Comparison) Comparison {
	return Comparison{
		Current:  money.FromMinor(c.Current),
		Previous: money.FromMinor(c.Previous),
		Change:   c.Change,
	}
}

type CategoryComparison struct {
	CategoryID uuid.UUID `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Name       string    `json:"name" example:"Groceries"`
	Comparison
}

type Recap struct {
	Period     statistics.RecapPeriod `json:"period" example:"month"`
	Currency   string                 `json:"currency" example:"PHP"` // ISO 4217 code of all amounts
	Current    statistics.Range       `json:"current"`
	Previous   statistics.Range       `json:"previous"`
	Income     Comparison             `json:"income"`
	Expense    Comparison             `json:"expense"`
	Net        Comparison             `json:"net"`
	Categories []CategoryComparison   `json:"categories"` // Expense categories used in either period
}

func newRecap(r statistics.Recap, currency string) Recap {
	recap := Recap{
		Period:     r.Period,
		Currency:   currency,
		Current:    r.Current,
		Previous:   r.Previous,
		Income:     newComparison(r.Income),
		Expense:    newComparison(r.Expense),
		Net:        newComparison(r.Net),
		Categories: make([]CategoryComparison, 0, len(r.Categories)),
	}

	for _, c := range r.Categories {
		recap.Categories = append(recap.Categories, CategoryComparison{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Comparison: newComparison(c.Comparison),
		})
	}

	return recap
}

type RecapResponse struct {
	Data  *Recap  `json:"data"`                                                       // Comparison of the period with the one before
	Error *string `json:"error" example:"the recap period must be one of week, month, year"` // The error, if any occurred
}
