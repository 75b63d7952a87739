package statistics

import (
	"context"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Comparison compares the value of a period with the one of the period before.
type Comparison struct {
	Current  int64
	Previous int64
	Change   decimal.Decimal // In percent
}

func compare(current, previous int64) Comparison {
	return Comparison{
		Current:  current,
		Previous: previous,
		Change:   Change(current, previous),
	}
}

// CategoryComparison compares the expenses of one category.
type CategoryComparison struct {
	CategoryID uuid.UUID
	Name       string
	Comparison
}

// Recap compares a period with the one before it.
type Recap struct {
	Period     RecapPeriod
	Current    Range
	Previous   Range
	Income     Comparison
	Expense    Comparison
	Net        Comparison
	Categories []CategoryComparison // Expense categories used in either period
}

// NewRecap compares the totals of the period of the given length
// that contains reference with the totals of the period before.
func NewRecap(ctx context.Context, owner string, period RecapPeriod, reference time.Time) (Recap, error) {
	current, previous, err := period.Ranges(reference)
	if err != nil {
		return Recap{}, err
	}

	var currentTotals, previousTotals Totals
	var currentCategories, previousCategories []CategoryTotal

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		currentTotals, err = totals(gctx, owner, current)
		return
	})

	g.Go(func() (err error) {
		previousTotals, err = totals(gctx, owner, previous)
		return
	})

	g.Go(func() (err error) {
		currentCategories, err = categoryTotals(gctx, owner, current)
		return
	})

	g.Go(func() (err error) {
		previousCategories, err = categoryTotals(gctx, owner, previous)
		return
	})

	if err := g.Wait(); err != nil {
		return Recap{}, err
	}

	return Recap{
		Period:     period,
		Current:    current,
		Previous:   previous,
		Income:     compare(currentTotals.Income, previousTotals.Income),
		Expense:    compare(currentTotals.Expense, previousTotals.Expense),
		Net:        compare(currentTotals.Net, previousTotals.Net),
		Categories: compareCategories(currentCategories, previousCategories),
	}, nil
}

// compareCategories pairs the expense categories of both periods. The order
// of the current period is kept, categories only used in the previous
// period follow.
func compareCategories(current, previous []CategoryTotal) []CategoryComparison {
	result := []CategoryComparison{}
	index := map[uuid.UUID]int{}

	for _, c := range current {
		if c.Kind != models.CategoryKindExpense {
			continue
		}

		index[c.CategoryID] = len(result)
		result = append(result, CategoryComparison{CategoryID: c.CategoryID, Name: c.Name, Comparison: Comparison{Current: c.Amount}})
	}

	for _, p := range previous {
		if p.Kind != models.CategoryKindExpense {
			continue
		}

		i, ok := index[p.CategoryID]
		if !ok {
			i = len(result)
			result = append(result, CategoryComparison{CategoryID: p.CategoryID, Name: p.Name})
		}
		result[i].Previous = p.Amount
	}

	for i := range result {
		result[i].Change = Change(result[i].Current, result[i].Previous)
	}

	return result
}
