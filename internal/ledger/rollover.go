package ledger

import (
	"context"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RolloverResult describes the rollover of one envelope.
type RolloverResult struct {
	AllocationID uuid.UUID
	Periods      int       // Number of elapsed periods
	Amount       int64     // Amount of the rollover ledger row, 0 if none was written
	PeriodStart  time.Time // Start of the new period
}

// Rollover starts a new budget period for every active envelope of owner
// whose current period has ended at t. An empty owner processes the
// envelopes of all owners.
//
// Without rollover, the current amount is reset to zero. With rollover, the
// target amount of every elapsed period is subtracted so that the unspent
// remainder or the overspending carries over into the new period.
func Rollover(ctx context.Context, owner string, t time.Time) ([]RolloverResult, error) {
	q := models.DB.WithContext(ctx).
		Where("kind = ? AND is_active = ? AND period IN ?", models.AllocationKindEnvelope, true, []types.Period{types.PeriodWeekly, types.PeriodMonthly, types.PeriodYearly})

	if owner != "" {
		q = q.Where("owner_id = ?", owner)
	}

	var candidates []models.Allocation
	err := q.Order("id ASC").Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	results := make([]RolloverResult, 0)
	for _, candidate := range candidates {
		if candidate.PeriodStart != nil && candidate.Period.Elapsed(*candidate.PeriodStart, t) == 0 {
			continue
		}

		result, ok, err := rollover(ctx, candidate.OwnerID, candidate.ID, t)
		if err != nil {
			return results, err
		}

		if ok {
			results = append(results, result)
		}
	}

	return results, nil
}

func rollover(ctx context.Context, owner string, id uuid.UUID, t time.Time) (RolloverResult, bool, error) {
	var result RolloverResult
	var ok bool

	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		envelope, err := lock(tx, owner, id)
		if err != nil {
			return err
		}

		// Re-check on the locked row, it might have changed in the meantime
		if !envelope.IsActive || !envelope.Period.Recurring() {
			return nil
		}

		start := envelope.Period.Start(t)
		result = RolloverResult{AllocationID: envelope.ID, PeriodStart: start}

		if envelope.PeriodStart != nil {
			result.Periods = envelope.Period.Elapsed(*envelope.PeriodStart, t)
			if result.Periods == 0 {
				return nil
			}

			result.Amount = -envelope.CurrentAmount
			if envelope.Rollover && envelope.TargetAmount != nil {
				result.Amount = -envelope.Target() * int64(result.Periods)
			}
		}

		if result.Amount != 0 {
			_, err = post(tx, models.AllocationLink{
				AllocationID: envelope.ID,
				Source:       models.LinkSourceRollover,
				Amount:       result.Amount,
				Note:         "rollover to period starting " + start.Format(time.DateOnly),
			})
			if err != nil {
				return err
			}
		}

		ok = true
		return tx.Model(&envelope).UpdateColumn("period_start", start).Error
	})
	committed("rollover", err)

	if err == nil && ok {
		log.Info().Str("allocation", id.String()).Int("periods", result.Periods).Int64("amount", result.Amount).Msg("rollover")
	}

	return result, ok, err
}
