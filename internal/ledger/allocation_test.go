package ledger_test

import (
	"time"

	"github.com/coincraft/backend/internal/ledger"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/types"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestCreateAllocationDefaults() {
	allocation, err := ledger.CreateAllocation(suite.ctx, owner, models.Allocation{
		OwnerID:       "someone else",
		Kind:          models.AllocationKindGoal,
		Name:          " Vacation ",
		CurrentAmount: 99999,
		IsActive:      false,
		Status:        models.AllocationStatusCompleted,
	})
	suite.Require().Nil(err)

	suite.Assert().Equal(owner, allocation.OwnerID)
	suite.Assert().Equal("Vacation", allocation.Name)
	suite.Assert().Equal(int64(0), allocation.CurrentAmount)
	suite.Assert().True(allocation.IsActive)
	suite.Assert().Equal(models.AllocationStatusActive, allocation.Status)
	suite.Assert().Equal(types.PeriodNone, allocation.Period)
	suite.Assert().Nil(allocation.PeriodStart)
	suite.Assert().Nil(allocation.TargetAmount)
}

func (suite *TestSuiteStandard) TestCreateAllocationPeriodStart() {
	restore := ledger.SetNow(func() time.Time { return time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC) })
	defer restore()

	allocation, err := ledger.CreateAllocation(suite.ctx, owner, models.Allocation{
		Kind:   models.AllocationKindEnvelope,
		Name:   "Groceries",
		Period: types.PeriodMonthly,
	})
	suite.Require().Nil(err)

	suite.Require().NotNil(allocation.PeriodStart)
	suite.Assert().Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *allocation.PeriodStart)
}

func (suite *TestSuiteStandard) TestCreateAllocationInvalid() {
	mine := models.Category{OwnerID: owner, Name: "Fun", Kind: models.CategoryKindExpense}
	suite.Require().Nil(models.DB.Create(&mine).Error)

	tests := []struct {
		name       string
		allocation models.Allocation
		err        error
	}{
		{"Kind", models.Allocation{Kind: "bucket", Name: "x"}, models.ErrAllocationKindInvalid},
		{"Name", models.Allocation{Kind: models.AllocationKindGoal, Name: "   "}, models.ErrNameEmpty},
		{"Target", models.Allocation{Kind: models.AllocationKindGoal, Name: "x", TargetAmount: ptr(int64(0))}, models.ErrTargetAmountNotPositive},
		{"Period", models.Allocation{Kind: models.AllocationKindEnvelope, Name: "x", Period: "daily"}, models.ErrInvalidInput},
		{"GoalPeriod", models.Allocation{Kind: models.AllocationKindGoal, Name: "x", Period: types.PeriodWeekly}, models.ErrPeriodOnGoal},
		{"EnvelopeDeadline", models.Allocation{Kind: models.AllocationKindEnvelope, Name: "x", Deadline: ptr(time.Now())}, models.ErrDeadlineOnEnvelope},
		{"UnknownCategory", models.Allocation{Kind: models.AllocationKindEnvelope, Name: "x", CategoryIDs: []uuid.UUID{mine.ID, uuid.New()}}, models.ErrSuggestionCategoryNotOwned},
	}

	for _, tt := range tests {
		_, err := ledger.CreateAllocation(suite.ctx, owner, tt.allocation)
		suite.Assert().ErrorIs(err, tt.err, tt.name)
	}

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Allocation{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestUpdateAllocation() {
	envelope := suite.createEnvelope(1000)
	_ = suite.createExpense(300, &envelope.ID)

	updated, err := ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{
		Name:          "Renamed",
		Note:          "Weekly shop",
		TargetAmount:  ptr(int64(2000)),
		CurrentAmount: 5,
	}, "Name", "Note", "TargetAmount", "CurrentAmount")
	suite.Require().Nil(err)

	suite.Assert().Equal("Renamed", updated.Name)
	suite.Assert().Equal("Weekly shop", updated.Note)
	suite.Assert().Equal(int64(2000), *updated.TargetAmount)
	suite.Assert().Equal(int64(300), suite.current(envelope.ID), "the current amount is not editable")
}

func (suite *TestSuiteStandard) TestUpdateAllocationKindImmutable() {
	envelope := suite.createEnvelope(1000)

	_, err := ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{Kind: models.AllocationKindGoal}, "Kind")
	suite.Assert().ErrorIs(err, models.ErrAllocationKindImmutable)

	// Sending the same kind is fine
	_, err = ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{Kind: models.AllocationKindEnvelope, Name: "Same"}, "Kind", "Name")
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestUpdateAllocationTargetZero() {
	envelope := suite.createEnvelope(1000)

	_, err := ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{TargetAmount: ptr(int64(0))}, "TargetAmount")
	suite.Assert().ErrorIs(err, models.ErrTargetAmountNotPositive)

	// Removing the target is possible
	updated, err := ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{}, "TargetAmount")
	suite.Require().Nil(err)
	suite.Assert().Nil(updated.TargetAmount)
	suite.Assert().Nil(suite.target(envelope.ID))
}

func (suite *TestSuiteStandard) TestUpdateAllocationPeriod() {
	restore := ledger.SetNow(func() time.Time { return time.Date(2024, 5, 22, 18, 0, 0, 0, time.UTC) })
	defer restore()

	envelope := suite.createEnvelope(1000)
	suite.Require().Nil(envelope.PeriodStart)

	// 2024-05-22 is a Wednesday
	updated, err := ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{Period: types.PeriodWeekly, Rollover: true}, "Period", "Rollover")
	suite.Require().Nil(err)
	suite.Require().NotNil(updated.PeriodStart)
	suite.Assert().Equal(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), *updated.PeriodStart)

	var reloaded models.Allocation
	suite.Require().Nil(models.DB.First(&reloaded, "id = ?", envelope.ID).Error)
	suite.Assert().True(reloaded.Rollover)
	suite.Assert().Equal(types.PeriodWeekly, reloaded.Period)
	suite.Assert().Equal(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), *reloaded.PeriodStart)

	updated, err = ledger.UpdateAllocation(suite.ctx, owner, envelope.ID, models.Allocation{Period: types.PeriodNone}, "Period", "Rollover")
	suite.Require().Nil(err)
	suite.Assert().Nil(updated.PeriodStart)
}

func (suite *TestSuiteStandard) TestUpdateAllocationNotOwned() {
	envelope := suite.createEnvelope(1000)

	_, err := ledger.UpdateAllocation(suite.ctx, "intruder", envelope.ID, models.Allocation{Name: "Mine now"}, "Name")
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	_, err = ledger.UpdateAllocation(suite.ctx, owner, uuid.New(), models.Allocation{Name: "Ghost"}, "Name")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestPauseResume() {
	envelope := suite.createEnvelope(1000)

	paused, err := ledger.Pause(suite.ctx, owner, envelope.ID)
	suite.Require().Nil(err)
	suite.Assert().False(paused.IsActive)
	suite.Assert().Equal(models.AllocationStatusPaused, paused.Status)

	_, err = ledger.Pause(suite.ctx, owner, envelope.ID)
	suite.Assert().ErrorIs(err, models.ErrAllocationInactive)

	resumed, err := ledger.Resume(suite.ctx, owner, envelope.ID)
	suite.Require().Nil(err)
	suite.Assert().True(resumed.IsActive)
	suite.Assert().Equal(models.AllocationStatusActive, resumed.Status)

	_, err = ledger.Resume(suite.ctx, owner, envelope.ID)
	suite.Assert().ErrorIs(err, models.ErrAllocationNotPaused)

	// Contributions work again after resuming
	_ = suite.createExpense(100, &envelope.ID)
	suite.Assert().Equal(int64(100), suite.current(envelope.ID))
}

func (suite *TestSuiteStandard) TestAbandon() {
	restore := ledger.SetNow(func() time.Time { return time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC) })
	defer restore()

	goal := suite.createGoal(1000)

	abandoned, err := ledger.Abandon(suite.ctx, owner, goal.ID)
	suite.Require().Nil(err)
	suite.Assert().False(abandoned.IsActive)
	suite.Assert().Equal(models.AllocationStatusAbandoned, abandoned.Status)

	var reloaded models.Allocation
	suite.Require().Nil(models.DB.First(&reloaded, "id = ?", goal.ID).Error)
	suite.Assert().Equal("abandoned", reloaded.Metadata["status"])
	suite.Assert().Equal("2024-07-01T08:00:00Z", reloaded.Metadata["abandonedAt"])

	for _, transition := range []func() (models.Allocation, error){
		func() (models.Allocation, error) { return ledger.Resume(suite.ctx, owner, goal.ID) },
		func() (models.Allocation, error) { return ledger.Pause(suite.ctx, owner, goal.ID) },
		func() (models.Allocation, error) { return ledger.Complete(suite.ctx, owner, goal.ID) },
		func() (models.Allocation, error) { return ledger.Abandon(suite.ctx, owner, goal.ID) },
	} {
		_, err := transition()
		suite.Assert().ErrorIs(err, models.ErrAllocationStatusTerminal)
	}
}

func (suite *TestSuiteStandard) TestCompleteFromPaused() {
	goal := suite.createGoal(1000)
	_, _, err := ledger.Contribute(suite.ctx, owner, goal.ID, 1000, "")
	suite.Require().Nil(err)

	_, err = ledger.Pause(suite.ctx, owner, goal.ID)
	suite.Require().Nil(err)

	completed, err := ledger.Complete(suite.ctx, owner, goal.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(models.AllocationStatusCompleted, completed.Status)
	suite.Assert().Contains(completed.Metadata, "completedAt")

	// Completing keeps the ledger
	var link models.AllocationLink
	suite.Require().Nil(models.DB.First(&link, "allocation_id = ?", goal.ID).Error)
	suite.Assert().Equal(int64(1000), link.Amount)
	suite.assertConsistent()
}
