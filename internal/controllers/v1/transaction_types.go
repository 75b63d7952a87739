package v1

import (
	"fmt"
	"time"

	"github.com/coincraft/backend/internal/ledger"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/money"
	ez_uuid "github.com/coincraft/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	Kind                 models.TransactionKind `json:"kind" example:"expense"`                                                // Kind of the transaction, expense, income or transfer
	Amount               decimal.Decimal        `json:"amount" example:"14.03" minimum:"0.01"`                                 // Amount of the transaction, always positive
	CategoryID           *uuid.UUID             `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`             // Category of expenses and incomes
	SourceAccountID      uuid.UUID              `json:"sourceAccountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`        // Account the money is taken from or, for incomes, received on
	DestinationAccountID *uuid.UUID             `json:"destinationAccountId" example:"772f3f4c-8d6c-4184-9c2c-4c6e4a1ad0d3"`   // Account the money is moved to by a transfer
	Date                 time.Time              `json:"date" example:"2024-03-14T09:31:00Z"`                                   // Date of the transaction. Defaults to now.
	Note                 string                 `json:"note" example:"Weekly market run" default:""`                           // A note about the transaction
	AllocationID         *uuid.UUID             `json:"allocationId" example:"4cb7a4d8-3c4a-4d49-a54d-ccd2b4b3b0f1"`           // Envelope or goal the amount counts towards
}

// input returns the ledger input for the editable fields.
func (editable TransactionEditable) input() (ledger.TransactionInput, error) {
	amount, err := money.ToMinor(editable.Amount)
	if err != nil {
		return ledger.TransactionInput{}, err
	}

	return ledger.TransactionInput{
		Kind:                 editable.Kind,
		Amount:               amount,
		CategoryID:           editable.CategoryID,
		SourceAccountID:      editable.SourceAccountID,
		DestinationAccountID: editable.DestinationAccountID,
		Date:                 editable.Date,
		Note:                 editable.Note,
		AllocationID:         editable.AllocationID,
	}, nil
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/6a1d3a52-5c0b-4d0e-9a1f-aaf1ab8e97a8"` // The transaction itself
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Kind:                 model.Kind,
			Amount:               money.FromMinor(model.Amount),
			CategoryID:           model.CategoryID,
			SourceAccountID:      model.SourceAccountID,
			DestinationAccountID: model.DestinationAccountID,
			Date:                 model.Date,
			Note:                 model.Note,
			AllocationID:         model.AllocationID(),
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

// CursorPagination describes a page of a cursor paginated list.
type CursorPagination struct {
	Count int    `json:"count" example:"50"`               // The amount of records returned in this response
	Limit int    `json:"limit" example:"50"`               // The maximum amount of records in a page
	Next  string `json:"next" example:"MjAyNC0wMy0xNFQw"` // Cursor of the next page, empty on the last page
}

type TransactionListResponse struct {
	Data       []Transaction     `json:"data"`                                  // List of transactions
	Error      *string           `json:"error" example:"the cursor is invalid"` // The error, if any occurred
	Pagination *CursorPagination `json:"pagination"`                            // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the amount must be greater than zero"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                 // List of created transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the allocation is paused, abandoned or completed"` // The error, if any occurred
	Data  *Transaction `json:"data"`                                                             // Data for the transaction
}

type TransactionQueryFilter struct {
	Kind         models.TransactionKind `form:"kind"`                                                 // By kind
	CategoryID   ez_uuid.UUID           `form:"category"`                                             // By category
	AccountID    ez_uuid.UUID           `form:"account"`                                              // By source or destination account
	AllocationID ez_uuid.UUID           `form:"allocation"`                                           // By linked allocation
	FromDate     time.Time              `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`      // Transactions at and after this day
	UntilDate    time.Time              `form:"untilDate" time_format:"2006-01-02" time_utc:"1"`     // Transactions at and before this day
	Cursor       string                 `form:"cursor"`                                               // Cursor from a previous page
	Limit        int                    `form:"limit"`                                                // Maximum number of transactions to return. Defaults to 50, at most 500.
}

func (f TransactionQueryFilter) model() ledger.TransactionFilter {
	return ledger.TransactionFilter{
		Kind:         f.Kind,
		CategoryID:   f.CategoryID.Pointer(),
		AccountID:    f.AccountID.Pointer(),
		AllocationID: f.AllocationID.Pointer(),
		FromDate:     f.FromDate,
		UntilDate:    f.UntilDate,
	}
}
