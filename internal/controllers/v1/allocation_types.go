package v1

import (
	"fmt"
	"time"

	"github.com/coincraft/backend/internal/ledger"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/money"
	"github.com/coincraft/backend/internal/types"
	ez_uuid "github.com/coincraft/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AllocationEditable struct {
	Kind               models.AllocationKind `json:"kind" example:"envelope"`                                             // Kind of the allocation, envelope or goal. Cannot be changed.
	Name               string                `json:"name" example:"Groceries" default:""`                                 // Name of the allocation
	Icon               string                `json:"icon" example:"cart" default:""`                                      // Icon identifier
	Color              string                `json:"color" example:"#4caf50" default:""`                                  // Display color
	Note               string                `json:"note" example:"Food and household supplies" default:""`               // A longer description
	TargetAmount       *decimal.Decimal      `json:"targetAmount" example:"1500.00"`                                      // Budget of an envelope or savings target of a goal
	Period             types.Period          `json:"period" example:"monthly" default:"none"`                             // Budget period of an envelope
	Rollover           bool                  `json:"rollover" example:"true" default:"false"`                             // Carry the unspent budget of an envelope into the next period
	Deadline           *time.Time            `json:"deadline" example:"2025-12-31T00:00:00Z"`                             // Day by which a goal should be reached
	CategoryIDs        []uuid.UUID           `json:"categoryIds"`                                                         // Categories whose transactions are suggested for the allocation
	SuggestionPatterns []string              `json:"suggestionPatterns" example:"*market*"`                               // Glob patterns matched against transaction notes for suggestions
}

// model returns the database resource for the editable fields.
func (editable AllocationEditable) model() (models.Allocation, error) {
	var target *int64
	if editable.TargetAmount != nil {
		minor, err := money.ToMinor(*editable.TargetAmount)
		if err != nil {
			return models.Allocation{}, err
		}
		target = &minor
	}

	return models.Allocation{
		Kind:               editable.Kind,
		Name:               editable.Name,
		Icon:               editable.Icon,
		Color:              editable.Color,
		Note:               editable.Note,
		TargetAmount:       target,
		Period:             editable.Period,
		Rollover:           editable.Rollover,
		Deadline:           editable.Deadline,
		CategoryIDs:        editable.CategoryIDs,
		SuggestionPatterns: editable.SuggestionPatterns,
	}, nil
}

type AllocationLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/allocations/4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"`                       // The allocation itself
	Transactions  string `json:"transactions" example:"https://example.com/api/v1/transactions?allocation=4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"`   // Transactions contributing to the allocation
	Contributions string `json:"contributions" example:"https://example.com/api/v1/allocations/4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1/contributions"` // Direct contributions to a goal
	Verification  string `json:"verification" example:"https://example.com/api/v1/allocations/4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1/verification"`   // Comparison of the current amount with the ledger
}

type Allocation struct {
	models.DefaultModel
	AllocationEditable
	CurrentAmount decimal.Decimal         `json:"currentAmount" example:"420.50"`                   // Sum of all contributions
	PeriodStart   *time.Time              `json:"periodStart" example:"2024-03-01T00:00:00Z"`       // Start of the current budget period
	IsActive      bool                    `json:"isActive" example:"true"`                          // Only active allocations accept new contributions
	Status        models.AllocationStatus `json:"status" example:"active"`                          // Lifecycle status
	Metadata      map[string]string       `json:"metadata" example:"abandonedAt:2024-07-01T08:00Z"` // Timestamps of status changes
	Links         AllocationLinks         `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/allocations/%s", url, model.ID)

	categoryIDs := model.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}

	patterns := model.SuggestionPatterns
	if patterns == nil {
		patterns = []string{}
	}

	return Allocation{
		DefaultModel: model.DefaultModel,
		AllocationEditable: AllocationEditable{
			Kind:               model.Kind,
			Name:               model.Name,
			Icon:               model.Icon,
			Color:              model.Color,
			Note:               model.Note,
			TargetAmount:       money.FromMinorPtr(model.TargetAmount),
			Period:             model.Period,
			Rollover:           model.Rollover,
			Deadline:           model.Deadline,
			CategoryIDs:        categoryIDs,
			SuggestionPatterns: patterns,
		},
		CurrentAmount: money.FromMinor(model.CurrentAmount),
		PeriodStart:   model.PeriodStart,
		IsActive:      model.IsActive,
		Status:        model.Status,
		Metadata:      model.Metadata,
		Links: AllocationLinks{
			Self:          self,
			Transactions:  fmt.Sprintf("%s/v1/transactions?allocation=%s", url, model.ID),
			Contributions: self + "/contributions",
			Verification:  self + "/verification",
		},
	}
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of allocations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type AllocationCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AllocationResponse `json:"data"`                                                          // List of created allocations
}

func (a *AllocationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AllocationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AllocationResponse struct {
	Error *string     `json:"error" example:"the allocation is paused, abandoned or completed"` // The error, if any occurred
	Data  *Allocation `json:"data"`                                                             // Data for the allocation
}

type AllocationQueryFilter struct {
	Kind     models.AllocationKind   `form:"kind"`                       // By kind
	IsActive bool                    `form:"active"`                     // Is the allocation active?
	Status   models.AllocationStatus `form:"status"`                     // By lifecycle status
	Name     string                  `form:"name" filterField:"false"`   // By name
	Note     string                  `form:"note" filterField:"false"`   // By note
	Search   string                  `form:"search" filterField:"false"` // By string in name or note
	Offset   uint                    `form:"offset" filterField:"false"` // The offset of the first allocation returned. Defaults to 0.
	Limit    int                     `form:"limit" filterField:"false"`  // Maximum number of allocations to return. Defaults to 50.
}

func (f AllocationQueryFilter) model(owner string) models.Allocation {
	return models.Allocation{
		OwnerID:  owner,
		Kind:     f.Kind,
		IsActive: f.IsActive,
		Status:   f.Status,
	}
}

type ContributionEditable struct {
	Amount decimal.Decimal `json:"amount" example:"250.00"`         // Amount to add to the goal
	Note   string          `json:"note" example:"Birthday money"` // A note about the contribution
}

// Contribution is a row of the ledger of an allocation.
type Contribution struct {
	ID            uuid.UUID         `json:"id" example:"0e4bc0a5-7c52-4bd7-a1c6-2ffb2f2d12b6"`            // ID of the ledger row
	AllocationID  uuid.UUID         `json:"allocationId" example:"4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"`  // ID of the allocation
	TransactionID *uuid.UUID        `json:"transactionId" example:"6a1d3a52-5c0b-4d0e-9a1f-aaf1ab8e97a8"` // ID of the transaction for rows caused by transactions
	Source        models.LinkSource `json:"source" example:"contribution"`                                // What caused the row, transaction, contribution or rollover
	Amount        decimal.Decimal   `json:"amount" example:"250.00"`                                      // Signed amount
	Note          string            `json:"note" example:"Birthday money"`                                // A note about the row
	CreatedAt     time.Time         `json:"createdAt" example:"2024-04-02T19:28:44.491514Z"`              // Time the row was written
}

func newContribution(link models.AllocationLink) Contribution {
	return Contribution{
		ID:            link.ID,
		AllocationID:  link.AllocationID,
		TransactionID: link.TransactionID,
		Source:        link.Source,
		Amount:        money.FromMinor(link.Amount),
		Note:          link.Note,
		CreatedAt:     link.CreatedAt,
	}
}

type ContributionData struct {
	Contribution Contribution `json:"contribution"` // The ledger row written for the contribution
	Allocation   Allocation   `json:"allocation"`   // The goal after the contribution
}

type ContributionResponse struct {
	Error *string           `json:"error" example:"direct contributions can only be made to goals"` // The error, if any occurred
	Data  *ContributionData `json:"data"`                                                           // The contribution
}

type ContributionListResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []Contribution `json:"data"`                                                          // The ledger of the allocation, oldest first
}

type TransferEditable struct {
	SourceID uuid.UUID       `json:"sourceId" example:"4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"` // Envelope the target amount is taken from
	TargetID uuid.UUID       `json:"targetId" example:"d2f0a0b5-1cfd-4b04-86e0-1b4d5c8d6f4c"` // Envelope the target amount is added to
	Amount   decimal.Decimal `json:"amount" example:"100.00"`                                 // Amount of budget to move
}

type TransferData struct {
	Source Allocation `json:"source"` // The source envelope after the transfer
	Target Allocation `json:"target"` // The target envelope after the transfer
}

type TransferResponse struct {
	Error *string       `json:"error" example:"the transfer amount exceeds the target amount of the source envelope"` // The error, if any occurred
	Data  *TransferData `json:"data"`                                                                                 // The envelopes after the transfer
}

// Verification compares the current amount of an allocation with its ledger.
type Verification struct {
	AllocationID  uuid.UUID       `json:"allocationId" example:"4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"` // ID of the allocation
	CurrentAmount decimal.Decimal `json:"currentAmount" example:"420.50"`                              // Stored current amount
	LedgerSum     decimal.Decimal `json:"ledgerSum" example:"420.50"`                                  // Sum of all ledger rows
	Links         int64           `json:"links" example:"12"`                                          // Number of ledger rows
	Drift         decimal.Decimal `json:"drift" example:"0"`                                           // Current amount minus ledger sum
	Consistent    bool            `json:"consistent" example:"true"`                                   // Does the current amount match the ledger?
}

func newVerification(report ledger.Report) Verification {
	return Verification{
		AllocationID:  report.AllocationID,
		CurrentAmount: money.FromMinor(report.CurrentAmount),
		LedgerSum:     money.FromMinor(report.LedgerSum),
		Links:         report.Links,
		Drift:         money.FromMinor(report.Drift()),
		Consistent:    report.Consistent(),
	}
}

type VerificationResponse struct {
	Error *string       `json:"error" example:"there is no allocation matching your query"` // The error, if any occurred
	Data  *Verification `json:"data"`                                                       // The verification report
}

type VerificationListResponse struct {
	Error *string        `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
	Data  []Verification `json:"data"`                                                                // Reports for all allocations
}

// Rollover describes the start of a new budget period of an envelope.
type Rollover struct {
	AllocationID uuid.UUID       `json:"allocationId" example:"4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"` // ID of the envelope
	Periods      int             `json:"periods" example:"1"`                                         // Number of elapsed periods
	Amount       decimal.Decimal `json:"amount" example:"-420.50"`                                    // Amount of the rollover ledger row
	PeriodStart  time.Time       `json:"periodStart" example:"2024-04-01T00:00:00Z"`                  // Start of the new period
}

type RolloverResponse struct {
	Error *string    `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
	Data  []Rollover `json:"data"`                                                                // Envelopes that started a new period
}

type SuggestionQuery struct {
	CategoryID ez_uuid.UUID `form:"category" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // Category of the transaction
	Note       string       `form:"note" example:"Weekly market run"`                       // Note of the transaction
}
