package v1

import (
	"fmt"

	"github.com/coincraft/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type AccountEditable struct {
	Name     string `json:"name" example:"Checking" default:""`             // Name of the account
	Note     string `json:"note" example:"My main bank account" default:""` // A longer description for the account
	Archived bool   `json:"archived" example:"false" default:"false"`       // Is the account archived?
}

// model returns the database resource for the editable fields
func (editable AccountEditable) model(owner string) models.Account {
	return models.Account{
		OwnerID:  owner,
		Name:     editable.Name,
		Note:     editable.Note,
		Archived: editable.Archived,
	}
}

// apply sets the fields named in fields on account.
func (editable AccountEditable) apply(account *models.Account, fields []string) {
	for _, field := range fields {
		switch field {
		case "Name":
			account.Name = editable.Name
		case "Note":
			account.Note = editable.Note
		case "Archived":
			account.Archived = editable.Archived
		}
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                     // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions referencing the account
}

type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`
}

func newAccount(c *gin.Context, model models.Account) Account {
	url := c.GetString(string(models.DBContextURL))

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:     model.Name,
			Note:     model.Note,
			Archived: model.Archived,
		},
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of accounts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created Accounts
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Account `json:"data"`                                                          // Data for the account
}

type AccountQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Archived bool   `form:"archived"`                   // Is the account archived?
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Account returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model(owner string) models.Account {
	// This does not set the string fields since they are
	// handled in the controller function
	return models.Account{
		OwnerID:  owner,
		Archived: f.Archived,
	}
}
