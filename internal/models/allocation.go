package models

import (
	"strings"
	"time"

	"github.com/coincraft/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationKind distinguishes spending budgets from savings targets.
type AllocationKind string

const (
	AllocationKindEnvelope AllocationKind = "envelope"
	AllocationKindGoal     AllocationKind = "goal"
)

func (k AllocationKind) Valid() bool {
	return k == AllocationKindEnvelope || k == AllocationKindGoal
}

// AllocationStatus is the lifecycle state of an allocation.
type AllocationStatus string

const (
	AllocationStatusActive    AllocationStatus = "active"
	AllocationStatusPaused    AllocationStatus = "paused"
	AllocationStatusAbandoned AllocationStatus = "abandoned"
	AllocationStatusCompleted AllocationStatus = "completed"
)

func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationStatusActive, AllocationStatusPaused, AllocationStatusAbandoned, AllocationStatusCompleted:
		return true
	}

	return false
}

// Terminal reports whether no further status change is possible.
func (s AllocationStatus) Terminal() bool {
	return s == AllocationStatusAbandoned || s == AllocationStatusCompleted
}

// Allocation is an envelope or a goal.
//
// CurrentAmount always equals the sum of the amounts of all
// AllocationLinks of the allocation.
type Allocation struct {
	DefaultModel
	OwnerID            string `gorm:"index"`
	Kind               AllocationKind
	Name               string
	Icon               string
	Color              string
	Note               string
	TargetAmount       *int64 // Minor units
	CurrentAmount      int64  // Minor units
	Period             types.Period
	PeriodStart        *time.Time
	Rollover           bool
	Deadline           *time.Time
	IsActive           bool
	Status             AllocationStatus
	Metadata           map[string]string `gorm:"serializer:json"`
	CategoryIDs        []uuid.UUID       `gorm:"serializer:json"`
	SuggestionPatterns []string          `gorm:"serializer:json"`
}

func (Allocation) Self() string {
	return "allocation"
}

func (a Allocation) Owner() string {
	return a.OwnerID
}

func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Icon = strings.TrimSpace(a.Icon)
	a.Color = strings.TrimSpace(a.Color)
	a.Note = strings.TrimSpace(a.Note)

	if a.PeriodStart != nil {
		start := a.PeriodStart.UTC()
		a.PeriodStart = &start
	}

	if a.Deadline != nil {
		deadline := types.Day(*a.Deadline)
		a.Deadline = &deadline
	}

	return nil
}

func (a *Allocation) AfterFind(tx *gorm.DB) error {
	err := a.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	if a.PeriodStart != nil {
		start := a.PeriodStart.In(time.UTC)
		a.PeriodStart = &start
	}

	if a.Deadline != nil {
		deadline := a.Deadline.In(time.UTC)
		a.Deadline = &deadline
	}

	return nil
}

// Validate checks the user editable fields.
func (a Allocation) Validate() error {
	if !a.Kind.Valid() {
		return ErrAllocationKindInvalid
	}

	if strings.TrimSpace(a.Name) == "" {
		return ErrNameEmpty
	}

	if a.TargetAmount != nil && *a.TargetAmount <= 0 {
		return ErrTargetAmountNotPositive
	}

	if !a.Period.Valid() {
		return Invalid("%s", types.ErrPeriodInvalid.Error())
	}

	if a.Kind == AllocationKindGoal && (a.Period.Recurring() || a.Rollover) {
		return ErrPeriodOnGoal
	}

	if a.Kind == AllocationKindEnvelope && a.Deadline != nil {
		return ErrDeadlineOnEnvelope
	}

	for _, pattern := range a.SuggestionPatterns {
		if strings.TrimSpace(pattern) == "" {
			return ErrSuggestionPatternEmpty
		}
	}

	return nil
}

// Target returns the target amount, 0 if none is set.
func (a Allocation) Target() int64 {
	if a.TargetAmount == nil {
		return 0
	}

	return *a.TargetAmount
}
