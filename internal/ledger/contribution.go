package ledger

import (
	"context"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contribute adds amount directly to a goal. The contribution is recorded
// as a ledger row without a transaction.
func Contribute(ctx context.Context, owner string, id uuid.UUID, amount int64, note string) (models.Allocation, models.AllocationLink, error) {
	if amount <= 0 {
		return models.Allocation{}, models.AllocationLink{}, models.ErrAmountNotPositive
	}

	var allocation models.Allocation
	var link models.AllocationLink
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		goal, err := lock(tx, owner, id)
		if err != nil {
			return err
		}

		if goal.Kind != models.AllocationKindGoal {
			return models.ErrContributionOnEnvelope
		}

		if !goal.IsActive {
			return models.ErrAllocationNotActive
		}

		link, err = post(tx, models.AllocationLink{
			AllocationID: goal.ID,
			Source:       models.LinkSourceContribution,
			Amount:       amount,
			Note:         note,
		})
		if err != nil {
			return err
		}

		allocation, err = reload(tx, goal.ID)
		return err
	})
	committed("contribute", err)

	if err != nil {
		return models.Allocation{}, models.AllocationLink{}, err
	}

	return allocation, link, nil
}

// Transfer moves budget capacity from one envelope to another by
// decreasing the target amount of the source and increasing the one of the
// target. Current amounts are not changed.
func Transfer(ctx context.Context, owner string, sourceID, targetID uuid.UUID, amount int64) (models.Allocation, models.Allocation, error) {
	if sourceID == targetID {
		return models.Allocation{}, models.Allocation{}, models.ErrTransferSameAllocation
	}

	if amount <= 0 {
		return models.Allocation{}, models.Allocation{}, models.ErrAmountNotPositive
	}

	var source, target models.Allocation
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		var err error
		source, target, err = lockPair(tx, owner, sourceID, targetID)
		if err != nil {
			return err
		}

		if source.Kind != models.AllocationKindEnvelope || target.Kind != models.AllocationKindEnvelope {
			return models.ErrTransferNotEnvelope
		}

		if !source.IsActive || !target.IsActive {
			return models.ErrAllocationNotActive
		}

		if amount > source.Target() {
			return models.ErrTransferExceedsTarget
		}

		updatedAt := time.Now().In(time.UTC)

		// The condition keeps the target of the source from going negative
		// even if the lock is not supported by the database
		result := tx.Model(&models.Allocation{}).
			Where("id = ? AND target_amount >= ?", source.ID, amount).
			UpdateColumns(map[string]any{
				"target_amount": gorm.Expr("target_amount - ?", amount),
				"updated_at":    updatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected != 1 {
			return models.ErrTransferExceedsTarget
		}

		err = tx.Model(&models.Allocation{}).
			Where("id = ?", target.ID).
			UpdateColumns(map[string]any{
				"target_amount": gorm.Expr("COALESCE(target_amount, 0) + ?", amount),
				"updated_at":    updatedAt,
			}).Error
		if err != nil {
			return err
		}

		source, err = reload(tx, source.ID)
		if err != nil {
			return err
		}

		target, err = reload(tx, target.ID)
		return err
	})
	committed("transfer", err)

	if err != nil {
		return models.Allocation{}, models.Allocation{}, err
	}

	return source, target, nil
}
