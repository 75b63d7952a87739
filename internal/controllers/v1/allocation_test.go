package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/coincraft/backend/internal/controllers/v1"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/types"
	"github.com/coincraft/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestAllocationsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestAllocationsOptions() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{})

	tests := []struct {
		name     string
		path     string
		status   int
		response string
	}{
		{"No allocation with this ID", uuid.New().String(), http.StatusNotFound, ""},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest, ""},
		{"Allocation exists", a.Data.ID.String(), http.StatusNoContent, "OPTIONS, GET, PATCH"},
		{"Pause", a.Data.ID.String() + "/pause", http.StatusNoContent, "OPTIONS, POST"},
		{"Resume", a.Data.ID.String() + "/resume", http.StatusNoContent, "OPTIONS, POST"},
		{"Abandon", a.Data.ID.String() + "/abandon", http.StatusNoContent, "OPTIONS, POST"},
		{"Complete", a.Data.ID.String() + "/complete", http.StatusNoContent, "OPTIONS, POST"},
		{"Contributions", a.Data.ID.String() + "/contributions", http.StatusNoContent, "OPTIONS, GET, POST"},
		{"Verification", a.Data.ID.String() + "/verification", http.StatusNoContent, "OPTIONS, GET"},
		{"Reconcile", a.Data.ID.String() + "/reconcile", http.StatusNoContent, "OPTIONS, POST"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/allocations/%s", tt.path), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, tt.response, r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsCreate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})
	deadline := time.Date(2025, 12, 31, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		allocation v1.AllocationEditable
		status     int
		errorMsg   string
	}{
		{
			"Monthly envelope",
			v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Groceries", TargetAmount: ptr(amount("400")), Period: types.PeriodMonthly, Rollover: true, CategoryIDs: []uuid.UUID{category.Data.ID}},
			http.StatusCreated,
			"",
		},
		{
			"Goal with deadline",
			v1.AllocationEditable{Kind: models.AllocationKindGoal, Name: "Vacation", TargetAmount: ptr(amount("1500.50")), Deadline: &deadline},
			http.StatusCreated,
			"",
		},
		{
			"Envelope without target",
			v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Misc"},
			http.StatusCreated,
			"",
		},
		{
			"Invalid kind",
			v1.AllocationEditable{Kind: "pot", Name: "Pot"},
			http.StatusBadRequest,
			models.ErrAllocationKindInvalid.Error(),
		},
		{
			"Negative target",
			v1.AllocationEditable{Kind: models.AllocationKindGoal, Name: "Debt", TargetAmount: ptr(amount("-10"))},
			http.StatusBadRequest,
			models.ErrTargetAmountNotPositive.Error(),
		},
		{
			"Goal with period",
			v1.AllocationEditable{Kind: models.AllocationKindGoal, Name: "Car", Period: types.PeriodMonthly},
			http.StatusBadRequest,
			models.ErrPeriodOnGoal.Error(),
		},
		{
			"Envelope with deadline",
			v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Rent", Deadline: &deadline},
			http.StatusBadRequest,
			models.ErrDeadlineOnEnvelope.Error(),
		},
		{
			"Invalid period",
			v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Fuel", Period: "daily"},
			http.StatusBadRequest,
			types.ErrPeriodInvalid.Error(),
		},
		{
			"Unknown suggestion category",
			v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Pets", CategoryIDs: []uuid.UUID{uuid.New()}},
			http.StatusBadRequest,
			models.ErrSuggestionCategoryNotOwned.Error(),
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/allocations", []v1.AllocationEditable{tt.allocation})
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.AllocationCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.errorMsg != "" {
				assert.Equal(t, tt.errorMsg, *response.Data[0].Error)
				return
			}

			a := response.Data[0].Data
			assert.Equal(t, tt.allocation.Name, a.Name)
			assert.True(t, a.CurrentAmount.IsZero())
			assert.True(t, a.IsActive)
			assert.Equal(t, models.AllocationStatusActive, a.Status)
			assert.NotNil(t, a.CategoryIDs)
			assert.NotNil(t, a.SuggestionPatterns)

			if tt.allocation.TargetAmount != nil {
				assert.True(t, tt.allocation.TargetAmount.Equal(*a.TargetAmount), "target is %s", a.TargetAmount)
			}

			if tt.allocation.Period == types.PeriodMonthly {
				assert.NotNil(t, a.PeriodStart)
			}

			if tt.allocation.Deadline != nil {
				assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), a.Deadline.UTC())
			}
		})
	}
}

// TestAllocationsTargetRounded verifies that amounts are rounded to the
// nearest minor unit.
func (suite *TestSuiteStandard) TestAllocationsTargetRounded() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/allocations", `[{ "kind": "goal", "name": "Precise", "targetAmount": "10.005" }]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.AllocationCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(amount("10.01").Equal(*response.Data[0].Data.TargetAmount), "target is %s", response.Data[0].Data.TargetAmount)
}

func (suite *TestSuiteStandard) TestAllocationsGetFilter() {
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Groceries", Note: "Weekly market"})
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Fuel"})
	goal := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindGoal, Name: "Vacation"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/allocations/"+goal.Data.ID.String()+"/pause", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Envelopes", "kind=envelope", 2},
		{"Goals", "kind=goal", 1},
		{"Active", "active=true", 2},
		{"Inactive", "active=false", 1},
		{"Paused", "status=paused", 1},
		{"Name", "name=fu", 1},
		{"Note", "note=market", 1},
		{"Search", "search=a", 2},
		{"Limit", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/allocations?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.AllocationListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsUpdate() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindEnvelope, Name: "Food", TargetAmount: ptr(amount("300"))})
	path := "http://example.com/v1/allocations/" + a.Data.ID.String()

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Name and target", map[string]any{"name": "Groceries", "targetAmount": "350.25"}, http.StatusOK},
		{"Patterns", map[string]any{"suggestionPatterns": []string{"*market*"}}, http.StatusOK},
		{"Kind is immutable", map[string]any{"kind": "goal"}, http.StatusBadRequest},
		{"Empty name", map[string]any{"name": ""}, http.StatusBadRequest},
		{"Broken body", `{ "name": 5 }`, http.StatusBadRequest},
		{"Empty object", map[string]any{}, http.StatusOK},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	updated := getAllocation(suite.T(), a.Data.ID)
	suite.Assert().Equal("Groceries", updated.Name)
	suite.Assert().True(amount("350.25").Equal(*updated.TargetAmount))
	suite.Assert().Equal([]string{"*market*"}, updated.SuggestionPatterns)
	suite.Assert().Equal(models.AllocationKindEnvelope, updated.Kind)
}

func (suite *TestSuiteStandard) TestAllocationsCurrentAmountIsReadOnly() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindGoal})

	r := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/allocations/"+a.Data.ID.String(), map[string]any{"currentAmount": "1000"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.Assert().True(getAllocation(suite.T(), a.Data.ID).CurrentAmount.IsZero())
}

func (suite *TestSuiteStandard) TestAllocationsLifecycle() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindGoal})
	path := "http://example.com/v1/allocations/" + a.Data.ID.String()

	tests := []struct {
		action   string
		status   int
		isActive bool
		state    models.AllocationStatus
	}{
		{"resume", http.StatusConflict, true, models.AllocationStatusActive},
		{"pause", http.StatusOK, false, models.AllocationStatusPaused},
		{"resume", http.StatusOK, true, models.AllocationStatusActive},
		{"abandon", http.StatusOK, false, models.AllocationStatusAbandoned},
		{"resume", http.StatusConflict, false, models.AllocationStatusAbandoned},
		{"complete", http.StatusConflict, false, models.AllocationStatusAbandoned},
	}

	for _, tt := range tests {
		r := test.Request(suite.T(), http.MethodPost, path+"/"+tt.action, "")
		test.AssertHTTPStatus(suite.T(), &r, tt.status)

		current := getAllocation(suite.T(), a.Data.ID)
		suite.Assert().Equal(tt.isActive, current.IsActive, tt.action)
		suite.Assert().Equal(tt.state, current.Status, tt.action)
	}

	abandoned := getAllocation(suite.T(), a.Data.ID)
	suite.Assert().Contains(abandoned.Metadata, "abandonedAt")
}

func (suite *TestSuiteStandard) TestAllocationsComplete() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindGoal})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/allocations/"+a.Data.ID.String()+"/complete", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().False(response.Data.IsActive)
	suite.Assert().Equal(models.AllocationStatusCompleted, response.Data.Status)
	suite.Assert().Contains(response.Data.Metadata, "completedAt")
}

func (suite *TestSuiteStandard) TestAllocationsForeignOwner() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindGoal})
	path := "http://example.com/v1/allocations/" + a.Data.ID.String()

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "", ""},
		{http.MethodPatch, "", map[string]any{"name": "Mine now"}},
		{http.MethodPost, "/pause", ""},
		{http.MethodPost, "/contributions", map[string]any{"amount": "10"}},
		{http.MethodGet, "/contributions", ""},
		{http.MethodGet, "/verification", ""},
		{http.MethodPost, "/reconcile", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := test.Request(t, tt.method, path+tt.path, tt.body, test.Authorization(t, other))
			test.AssertHTTPStatus(t, &r, http.StatusForbidden)
		})
	}

	suite.Assert().True(getAllocation(suite.T(), a.Data.ID).IsActive)
}

func (suite *TestSuiteStandard) TestAllocationsNoDelete() {
	a := createTestAllocation(suite.T(), v1.AllocationEditable{})

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/allocations/"+a.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusMethodNotAllowed)
}
