package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part as percentage of total, rounded to two decimals.
// A total of zero yields zero.
func Percentage(part, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}

// Change returns the change from previous to current in percent, rounded to
// two decimals.
//
// If previous is zero, the change is 100 for a positive current value and
// 0 otherwise.
func Change(current, previous int64) decimal.Decimal {
	if previous == 0 {
		if current > 0 {
			return hundred
		}
		return decimal.Zero
	}

	return decimal.NewFromInt(current - previous).Div(decimal.NewFromInt(previous)).Mul(hundred).Round(2)
}

// Totals are the sums of income and expense transactions. Transfers
// between accounts are not included.
type Totals struct {
	Income  int64
	Expense int64
	Net     int64
}

// CategoryTotal is the sum of the transactions of one category.
type CategoryTotal struct {
	CategoryID uuid.UUID
	Name       string
	Kind       models.CategoryKind
	Amount     int64
	Percentage decimal.Decimal // Share of the income or expense total
}

// MonthTotal sums the transactions of one month.
type MonthTotal struct {
	Month   types.Month
	Income  int64
	Expense int64
}

// DayTotal sums the transactions of one day.
type DayTotal struct {
	Date    time.Time
	Income  int64
	Expense int64
}

// AllocationProgress compares the current amount of an allocation with its target.
type AllocationProgress struct {
	AllocationID  uuid.UUID
	Name          string
	Kind          models.AllocationKind
	CurrentAmount int64
	TargetAmount  *int64
	Percentage    decimal.Decimal // Current amount as share of the target, 0 without target
}

// Summary is the aggregation of the transactions in a date range.
type Summary struct {
	Range       Range
	Totals      Totals
	Expenses    []CategoryTotal // Ordered by amount, largest first
	Incomes     []CategoryTotal // Ordered by amount, largest first
	Months      []MonthTotal
	Days        []DayTotal
	Allocations []AllocationProgress
}

// in restricts db to the income and expense transactions of owner in r.
func in(db *gorm.DB, owner string, r Range) *gorm.DB {
	return db.Model(&models.Transaction{}).
		Where("transactions.owner_id = ?", owner).
		Where("transactions.kind IN ?", []models.TransactionKind{models.TransactionKindIncome, models.TransactionKindExpense}).
		Where("transactions.date >= ? AND transactions.date < ?", r.From, r.end())
}

func totals(ctx context.Context, owner string, r Range) (Totals, error) {
	var rows []struct {
		Kind   models.TransactionKind
		Amount int64
	}

	err := in(models.DB.WithContext(ctx), owner, r).
		Select("transactions.kind AS kind, COALESCE(SUM(transactions.amount), 0) AS amount").
		Group("transactions.kind").
		Scan(&rows).Error
	if err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, row := range rows {
		switch row.Kind {
		case models.TransactionKindIncome:
			t.Income = row.Amount
		case models.TransactionKindExpense:
			t.Expense = row.Amount
		}
	}
	t.Net = t.Income - t.Expense

	return t, nil
}

// categoryTotals returns the sums per category, largest first.
func categoryTotals(ctx context.Context, owner string, r Range) ([]CategoryTotal, error) {
	var rows []struct {
		ID     uuid.UUID
		Name   string
		Kind   models.CategoryKind
		Amount int64
	}

	err := in(models.DB.WithContext(ctx), owner, r).
		Select("categories.id AS id, categories.name AS name, categories.kind AS kind, SUM(transactions.amount) AS amount").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Group("categories.id, categories.name, categories.kind").
		Order("amount DESC, categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]CategoryTotal, 0, len(rows))
	for _, row := range rows {
		result = append(result, CategoryTotal{
			CategoryID: row.ID,
			Name:       row.Name,
			Kind:       row.Kind,
			Amount:     row.Amount,
		})
	}

	return result, nil
}

func dayTotals(ctx context.Context, owner string, r Range) ([]DayTotal, error) {
	var rows []struct {
		Day    string
		Kind   models.TransactionKind
		Amount int64
	}

	err := in(models.DB.WithContext(ctx), owner, r).
		Select("date(transactions.date) AS day, transactions.kind AS kind, SUM(transactions.amount) AS amount").
		Group("date(transactions.date), transactions.kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*DayTotal)
	for _, row := range rows {
		if len(row.Day) < len(time.DateOnly) {
			continue
		}

		// PostgreSQL dates are scanned as full timestamps
		day, err := time.Parse(time.DateOnly, row.Day[:len(time.DateOnly)])
		if err != nil {
			return nil, err
		}

		total, ok := byDay[day]
		if !ok {
			total = &DayTotal{Date: day}
			byDay[day] = total
		}

		switch row.Kind {
		case models.TransactionKindIncome:
			total.Income += row.Amount
		case models.TransactionKindExpense:
			total.Expense += row.Amount
		}
	}

	days := make([]DayTotal, 0, len(byDay))
	for _, total := range byDay {
		days = append(days, *total)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	return days, nil
}

// months folds the day totals into one total per month of r. Months
// without transactions are included.
func months(r Range, days []DayTotal) []MonthTotal {
	result := []MonthTotal{}
	for m := types.MonthOf(r.From); !r.Until.Before(m.Time()); m = m.AddDate(0, 1) {
		result = append(result, MonthTotal{Month: m})
	}

	for _, day := range days {
		for i := range result {
			if result[i].Month.Contains(day.Date) {
				result[i].Income += day.Income
				result[i].Expense += day.Expense
				break
			}
		}
	}

	return result
}

func allocationProgress(ctx context.Context, owner string) ([]AllocationProgress, error) {
	var allocations []models.Allocation
	err := models.DB.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", owner, true).
		Order("name ASC, id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	result := make([]AllocationProgress, 0, len(allocations))
	for _, a := range allocations {
		result = append(result, AllocationProgress{
			AllocationID:  a.ID,
			Name:          a.Name,
			Kind:          a.Kind,
			CurrentAmount: a.CurrentAmount,
			TargetAmount:  a.TargetAmount,
			Percentage:    Percentage(a.CurrentAmount, a.Target()),
		})
	}

	return result, nil
}

// Summarize aggregates the income and expense transactions of owner in r.
func Summarize(ctx context.Context, owner string, r Range) (Summary, error) {
	summary := Summary{Range: r}
	var categories []CategoryTotal

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		summary.Totals, err = totals(gctx, owner, r)
		return
	})

	g.Go(func() (err error) {
		categories, err = categoryTotals(gctx, owner, r)
		return
	})

	g.Go(func() (err error) {
		summary.Days, err = dayTotals(gctx, owner, r)
		return
	})

	g.Go(func() (err error) {
		summary.Allocations, err = allocationProgress(gctx, owner)
		return
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary.Months = months(r, summary.Days)
	summary.Expenses = []CategoryTotal{}
	summary.Incomes = []CategoryTotal{}

	for _, category := range categories {
		switch category.Kind {
		case models.CategoryKindExpense:
			category.Percentage = Percentage(category.Amount, summary.Totals.Expense)
			summary.Expenses = append(summary.Expenses, category)
		case models.CategoryKindIncome:
			category.Percentage = Percentage(category.Amount, summary.Totals.Income)
			summary.Incomes = append(summary.Incomes, category)
		}
	}

	return summary, nil
}
