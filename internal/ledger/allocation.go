package ledger

import (
	"context"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/types"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Editable fields of an allocation, by struct field name.
var allocationEditable = []string{
	"Name", "Icon", "Color", "Note", "TargetAmount", "Period", "Rollover",
	"Deadline", "CategoryIDs", "SuggestionPatterns",
}

var allocationColumns = map[string]string{
	"Name":               "name",
	"Icon":               "icon",
	"Color":              "color",
	"Note":               "note",
	"TargetAmount":       "target_amount",
	"Period":             "period",
	"Rollover":           "rollover",
	"Deadline":           "deadline",
	"CategoryIDs":        "category_ids",
	"SuggestionPatterns": "suggestion_patterns",
}

// now is replaced in tests.
var now = func() time.Time {
	return time.Now().In(time.UTC)
}

// CreateAllocation creates a new envelope or goal for owner.
//
// The current amount always starts at zero and the allocation is active.
func CreateAllocation(ctx context.Context, owner string, allocation models.Allocation) (models.Allocation, error) {
	allocation.ID = uuid.Nil
	allocation.OwnerID = owner
	allocation.CurrentAmount = 0
	allocation.IsActive = true
	allocation.Status = models.AllocationStatusActive
	allocation.Metadata = map[string]string{}

	if allocation.Period == "" {
		allocation.Period = types.PeriodNone
	}

	err := allocation.Validate()
	if err != nil {
		return models.Allocation{}, err
	}

	allocation.PeriodStart = periodStart(allocation)

	err = models.Atomic(ctx, func(tx *gorm.DB) error {
		err := checkCategories(tx, owner, allocation.CategoryIDs)
		if err != nil {
			return err
		}

		return tx.Create(&allocation).Error
	})
	committed("create_allocation", err)

	return allocation, err
}

// UpdateAllocation updates the fields named in fields with the values of
// update. Without fields, all editable fields are updated.
//
// Neither the kind, the owner nor the current amount can be changed.
func UpdateAllocation(ctx context.Context, owner string, id uuid.UUID, update models.Allocation, fields ...string) (models.Allocation, error) {
	if len(fields) == 0 {
		fields = allocationEditable
	}

	var allocation models.Allocation
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		var err error
		allocation, err = lock(tx, owner, id)
		if err != nil {
			return err
		}

		if slices.Contains(fields, "Kind") && update.Kind != allocation.Kind {
			return models.ErrAllocationKindImmutable
		}

		previousPeriod := allocation.Period
		columns := []string{}
		for _, field := range fields {
			column, ok := allocationColumns[field]
			if !ok {
				continue
			}

			columns = append(columns, column)
			apply(&allocation, update, field)
		}

		if allocation.Period == "" {
			allocation.Period = types.PeriodNone
		}

		// A stored target of zero is valid after a transfer and is only
		// rejected when it is set explicitly
		check := allocation
		if !slices.Contains(fields, "TargetAmount") {
			check.TargetAmount = nil
		}

		err = check.Validate()
		if err != nil {
			return err
		}

		if slices.Contains(fields, "CategoryIDs") {
			err = checkCategories(tx, owner, allocation.CategoryIDs)
			if err != nil {
				return err
			}
		}

		if allocation.Period != previousPeriod {
			allocation.PeriodStart = periodStart(allocation)
			columns = append(columns, "period_start")
		}

		if len(columns) == 0 {
			return nil
		}

		return tx.Model(&allocation).Select(columns).Updates(&allocation).Error
	})
	committed("update_allocation", err)

	if err != nil {
		return models.Allocation{}, err
	}

	return allocation, nil
}

func apply(allocation *models.Allocation, update models.Allocation, field string) {
	switch field {
	case "Name":
		allocation.Name = update.Name
	case "Icon":
		allocation.Icon = update.Icon
	case "Color":
		allocation.Color = update.Color
	case "Note":
		allocation.Note = update.Note
	case "TargetAmount":
		allocation.TargetAmount = update.TargetAmount
	case "Period":
		allocation.Period = update.Period
	case "Rollover":
		allocation.Rollover = update.Rollover
	case "Deadline":
		allocation.Deadline = update.Deadline
	case "CategoryIDs":
		allocation.CategoryIDs = update.CategoryIDs
	case "SuggestionPatterns":
		allocation.SuggestionPatterns = update.SuggestionPatterns
	}
}

func periodStart(allocation models.Allocation) *time.Time {
	if !allocation.Period.Recurring() {
		return nil
	}

	start := allocation.Period.Start(now())
	return &start
}

// checkCategories verifies that all categories exist and belong to owner.
func checkCategories(tx *gorm.DB, owner string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	var count int64
	err := tx.Model(&models.Category{}).Where("owner_id = ? AND id IN ?", owner, ids).Count(&count).Error
	if err != nil {
		return err
	}

	if int(count) != len(unique(ids)) {
		return models.ErrSuggestionCategoryNotOwned
	}

	return nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	result := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}

	return result
}

// Pause deactivates an active allocation.
func Pause(ctx context.Context, owner string, id uuid.UUID) (models.Allocation, error) {
	return transition(ctx, owner, id, models.AllocationStatusPaused)
}

// Resume reactivates a paused allocation.
func Resume(ctx context.Context, owner string, id uuid.UUID) (models.Allocation, error) {
	return transition(ctx, owner, id, models.AllocationStatusActive)
}

// Abandon deactivates an allocation for good and records when it happened.
func Abandon(ctx context.Context, owner string, id uuid.UUID) (models.Allocation, error) {
	return transition(ctx, owner, id, models.AllocationStatusAbandoned)
}

// Complete deactivates an allocation for good and records when it happened.
func Complete(ctx context.Context, owner string, id uuid.UUID) (models.Allocation, error) {
	return transition(ctx, owner, id, models.AllocationStatusCompleted)
}

func transition(ctx context.Context, owner string, id uuid.UUID, status models.AllocationStatus) (models.Allocation, error) {
	var allocation models.Allocation
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		var err error
		allocation, err = lock(tx, owner, id)
		if err != nil {
			return err
		}

		if allocation.Status.Terminal() {
			return models.ErrAllocationStatusTerminal
		}

		switch status {
		case models.AllocationStatusPaused:
			if allocation.Status != models.AllocationStatusActive {
				return models.ErrAllocationNotActive
			}
		case models.AllocationStatusActive:
			if allocation.Status != models.AllocationStatusPaused {
				return models.ErrAllocationNotPaused
			}
		case models.AllocationStatusAbandoned, models.AllocationStatusCompleted:
			if allocation.Metadata == nil {
				allocation.Metadata = map[string]string{}
			}
			allocation.Metadata["status"] = string(status)
			allocation.Metadata[string(status)+"At"] = now().Format(time.RFC3339)
		}

		allocation.Status = status
		allocation.IsActive = status == models.AllocationStatusActive

		return tx.Model(&allocation).Select("status", "is_active", "metadata").Updates(&allocation).Error
	})
	committed(string(status), err)

	if err != nil {
		return models.Allocation{}, err
	}

	return allocation, nil
}
