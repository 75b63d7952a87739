package ledger

import (
	"context"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report compares the current amount of an allocation with its ledger.
type Report struct {
	AllocationID  uuid.UUID
	CurrentAmount int64
	LedgerSum     int64
	Links         int64
}

// Drift is the amount by which the current amount differs from the ledger.
func (r Report) Drift() int64 {
	return r.CurrentAmount - r.LedgerSum
}

// Consistent reports whether the current amount matches the ledger.
func (r Report) Consistent() bool {
	return r.Drift() == 0
}

func ledgerSum(tx *gorm.DB, id uuid.UUID) (sum, count int64, err error) {
	row := struct {
		Sum   int64
		Count int64
	}{}

	err = tx.Model(&models.AllocationLink{}).
		Select("COALESCE(SUM(amount), 0) AS sum, COUNT(id) AS count").
		Where("allocation_id = ?", id).
		Scan(&row).Error

	return row.Sum, row.Count, err
}

// Verify compares the current amount of an allocation with the sum of its ledger.
func Verify(ctx context.Context, owner string, id uuid.UUID) (Report, error) {
	db := models.DB.WithContext(ctx)

	var allocation models.Allocation
	err := models.FirstOwned(db, owner, &allocation, id)
	if err != nil {
		return Report{}, err
	}

	sum, count, err := ledgerSum(db, id)
	if err != nil {
		return Report{}, err
	}

	return Report{
		AllocationID:  allocation.ID,
		CurrentAmount: allocation.CurrentAmount,
		LedgerSum:     sum,
		Links:         count,
	}, nil
}

// VerifyAll verifies all allocations of owner, ordered by name.
func VerifyAll(ctx context.Context, owner string) ([]Report, error) {
	var rows []struct {
		ID            uuid.UUID
		CurrentAmount int64
		LedgerSum     int64
		Links         int64
	}

	err := models.DB.WithContext(ctx).
		Table("allocations").
		Select("allocations.id, allocations.current_amount, COALESCE(SUM(allocation_links.amount), 0) AS ledger_sum, COUNT(allocation_links.id) AS links").
		Joins("LEFT JOIN allocation_links ON allocation_links.allocation_id = allocations.id").
		Where("allocations.owner_id = ?", owner).
		Group("allocations.id, allocations.current_amount, allocations.name").
		Order("allocations.name ASC, allocations.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, Report{
			AllocationID:  row.ID,
			CurrentAmount: row.CurrentAmount,
			LedgerSum:     row.LedgerSum,
			Links:         row.Links,
		})
	}

	return reports, nil
}

// Reconcile sets the current amount of an allocation to the sum of its
// ledger. The returned report describes the state before the repair.
func Reconcile(ctx context.Context, owner string, id uuid.UUID) (Report, error) {
	var report Report
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		allocation, err := lock(tx, owner, id)
		if err != nil {
			return err
		}

		sum, count, err := ledgerSum(tx, id)
		if err != nil {
			return err
		}

		report = Report{
			AllocationID:  allocation.ID,
			CurrentAmount: allocation.CurrentAmount,
			LedgerSum:     sum,
			Links:         count,
		}

		if report.Consistent() {
			return nil
		}

		return tx.Model(&allocation).UpdateColumn("current_amount", sum).Error
	})
	committed("reconcile", err)

	return report, err
}
