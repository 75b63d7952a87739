package v1_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	v1 "github.com/coincraft/backend/internal/controllers/v1"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTransactionsDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestTransactionsOptions() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"List", "http://example.com/v1/transactions", http.StatusNoContent},
		{"Detail", transaction.Data.Links.Self, http.StatusNoContent},
		{"No transaction", "http://example.com/v1/transactions/" + uuid.NewString(), http.StatusNotFound},
		{"Invalid UUID", "http://example.com/v1/transactions/definitelynotauuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	checking := createTestAccount(suite.T(), v1.AccountEditable{Name: "Checking"})
	savings := createTestAccount(suite.T(), v1.AccountEditable{Name: "Savings"})
	food := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Food", Kind: models.CategoryKindExpense})
	salary := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Salary", Kind: models.CategoryKindIncome})

	tests := []struct {
		name   string
		body   v1.TransactionEditable
		status int
	}{
		{"Expense", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("12.50"), SourceAccountID: checking.Data.ID, CategoryID: &food.Data.ID}, http.StatusCreated},
		{"Income", v1.TransactionEditable{Kind: models.TransactionKindIncome, Amount: amount("1500"), SourceAccountID: checking.Data.ID, CategoryID: &salary.Data.ID}, http.StatusCreated},
		{"Transfer", v1.TransactionEditable{Kind: models.TransactionKindTransfer, Amount: amount("100"), SourceAccountID: checking.Data.ID, DestinationAccountID: &savings.Data.ID}, http.StatusCreated},
		{"Transfer with category", v1.TransactionEditable{Kind: models.TransactionKindTransfer, Amount: amount("100"), SourceAccountID: checking.Data.ID, DestinationAccountID: &savings.Data.ID, CategoryID: &food.Data.ID}, http.StatusCreated},
		{"Zero amount", v1.TransactionEditable{Kind: models.TransactionKindExpense, SourceAccountID: checking.Data.ID, CategoryID: &food.Data.ID}, http.StatusBadRequest},
		{"Negative amount", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("-5"), SourceAccountID: checking.Data.ID, CategoryID: &food.Data.ID}, http.StatusBadRequest},
		{"Invalid kind", v1.TransactionEditable{Kind: "refund", Amount: amount("5"), SourceAccountID: checking.Data.ID, CategoryID: &food.Data.ID}, http.StatusBadRequest},
		{"Expense without category", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: checking.Data.ID}, http.StatusBadRequest},
		{"Expense with income category", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: checking.Data.ID, CategoryID: &salary.Data.ID}, http.StatusBadRequest},
		{"Expense with destination", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: checking.Data.ID, CategoryID: &food.Data.ID, DestinationAccountID: &savings.Data.ID}, http.StatusBadRequest},
		{"Transfer without destination", v1.TransactionEditable{Kind: models.TransactionKindTransfer, Amount: amount("5"), SourceAccountID: checking.Data.ID}, http.StatusBadRequest},
		{"Transfer to same account", v1.TransactionEditable{Kind: models.TransactionKindTransfer, Amount: amount("5"), SourceAccountID: checking.Data.ID, DestinationAccountID: &checking.Data.ID}, http.StatusBadRequest},
		{"Unknown account", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: uuid.New(), CategoryID: &food.Data.ID}, http.StatusNotFound},
		{"Unknown allocation", v1.TransactionEditable{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: checking.Data.ID, CategoryID: &food.Data.ID, AllocationID: ptr(uuid.New())}, http.StatusNotFound},
	}

	// Bodies are posted as they are, createTestTransaction would fill in defaults
	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{tt.body})
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreateDefaults() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Note: "  Coffee  "})

	suite.Assert().Equal("Coffee", transaction.Data.Note)
	suite.Assert().WithinDuration(time.Now(), transaction.Data.Date, time.Minute)
	suite.Assert().Nil(transaction.Data.AllocationID)
}

func (suite *TestSuiteStandard) TestTransactionsCreateMixed() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{
		{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: account.Data.ID, CategoryID: &category.Data.ID},
		{Kind: models.TransactionKindExpense, SourceAccountID: account.Data.ID, CategoryID: &category.Data.ID},
		{Kind: models.TransactionKindExpense, Amount: amount("5"), SourceAccountID: uuid.New(), CategoryID: &category.Data.ID},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	var response v1.TransactionCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().NotNil(response.Data[0].Data)
	suite.Assert().Equal(models.ErrAmountNotPositive.Error(), *response.Data[1].Error)
	suite.Assert().NotNil(response.Data[2].Error)
}

func (suite *TestSuiteStandard) TestTransactionsAllocation() {
	envelope := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindEnvelope})
	goal := createTestAllocation(suite.T(), v1.AllocationEditable{Kind: models.AllocationKindGoal})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: amount("40"), AllocationID: &envelope.Data.ID})
	suite.Require().NotNil(transaction.Data.AllocationID)
	suite.Assert().Equal(envelope.Data.ID, *transaction.Data.AllocationID)
	suite.Assert().True(amount("40").Equal(getAllocation(suite.T(), envelope.Data.ID).CurrentAmount))

	tests := []struct {
		name     string
		body     map[string]any
		envelope string
		goal     string
	}{
		{"Resize", map[string]any{"amount": "55.55"}, "55.55", "0"},
		{"Note only", map[string]any{"note": "Groceries"}, "55.55", "0"},
		{"Move", map[string]any{"allocationId": goal.Data.ID}, "0", "55.55"},
		{"Move and resize", map[string]any{"allocationId": envelope.Data.ID, "amount": "10"}, "10", "0"},
		{"Unlink", map[string]any{"allocationId": nil}, "0", "0"},
		{"Link", map[string]any{"allocationId": goal.Data.ID}, "0", "10"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, transaction.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			assert.True(t, amount(tt.envelope).Equal(getAllocation(t, envelope.Data.ID).CurrentAmount), "envelope")
			assert.True(t, amount(tt.goal).Equal(getAllocation(t, goal.Data.ID).CurrentAmount), "goal")
		})
	}

	r := test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().True(getAllocation(suite.T(), goal.Data.ID).CurrentAmount.IsZero())

	// All ledgers still match the current amounts
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/allocations/verification", "")
	var verifications v1.VerificationListResponse
	test.DecodeResponse(suite.T(), &r, &verifications)
	for _, verification := range verifications.Data {
		suite.Assert().True(verification.Consistent, verification.AllocationID.String())
	}
}

func (suite *TestSuiteStandard) TestTransactionsUpdateKeepsAllocation() {
	envelope := createTestAllocation(suite.T(), v1.AllocationEditable{})
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: amount("30"), AllocationID: &envelope.Data.ID})

	for _, body := range []map[string]any{{"note": "Bakery"}, {"amount": "45"}, {"note": "Bakery and coffee"}} {
		r := test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var response v1.TransactionResponse
		test.DecodeResponse(suite.T(), &r, &response)
		suite.Require().NotNil(response.Data.AllocationID, "the allocation must stay linked")
		suite.Assert().Equal(envelope.Data.ID, *response.Data.AllocationID)
	}

	r := test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data.AllocationID)
	suite.Assert().Equal("Bakery and coffee", response.Data.Note)

	suite.Assert().True(amount("45").Equal(getAllocation(suite.T(), envelope.Data.ID).CurrentAmount))

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/allocations/"+envelope.Data.ID.String()+"/contributions", "")
	var ledger v1.ContributionListResponse
	test.DecodeResponse(suite.T(), &r, &ledger)
	suite.Require().Len(ledger.Data, 1)
	suite.Assert().True(amount("45").Equal(ledger.Data[0].Amount))
}

func (suite *TestSuiteStandard) TestTransactionsInactiveAllocation() {
	envelope := createTestAllocation(suite.T(), v1.AllocationEditable{})
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: amount("20"), AllocationID: &envelope.Data.ID})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/allocations/"+envelope.Data.ID.String()+"/pause", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AllocationID: &envelope.Data.ID}, http.StatusConflict)

	r = test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, map[string]any{"amount": "25"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Lowering the amount and removing the link are possible
	r = test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, map[string]any{"amount": "15"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().True(amount("15").Equal(getAllocation(suite.T(), envelope.Data.ID).CurrentAmount))

	r = test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().True(getAllocation(suite.T(), envelope.Data.ID).CurrentAmount.IsZero())
}

func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: amount("10"), Note: "Lunch"})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Invalid body", `{"amount": 2`, http.StatusBadRequest},
		{"Zero amount", map[string]any{"amount": "0"}, http.StatusBadRequest},
		{"Invalid kind", map[string]any{"kind": "refund"}, http.StatusBadRequest},
		{"Transfer without destination", map[string]any{"kind": models.TransactionKindTransfer}, http.StatusBadRequest},
		{"Unknown category", map[string]any{"categoryId": uuid.New()}, http.StatusNotFound},
		{"Note", map[string]any{"note": "Dinner"}, http.StatusOK},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, transaction.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Dinner", response.Data.Note)
	suite.Assert().True(amount("10").Equal(response.Data.Amount), "failed updates must not change the transaction")
	suite.Assert().Equal(models.TransactionKindExpense, response.Data.Kind)
}

func (suite *TestSuiteStandard) TestTransactionsUpdateEmpty() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Note: "Unchanged"})

	r := test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, map[string]any{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Unchanged", response.Data.Note)
}

func (suite *TestSuiteStandard) TestTransactionsForeignOwner() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{})

	for _, method := range []string{http.MethodOptions, http.MethodGet, http.MethodPatch, http.MethodDelete} {
		suite.T().Run(method, func(t *testing.T) {
			r := test.Request(t, method, transaction.Data.Links.Self, map[string]any{"note": "mine now"}, test.Authorization(t, other))
			test.AssertHTTPStatus(t, &r, http.StatusForbidden)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", "", test.Authorization(suite.T(), other))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 0)

	// Referencing resources of another owner is not possible
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{{
		Kind:            models.TransactionKindExpense,
		Amount:          amount("1"),
		SourceAccountID: account.Data.ID,
		CategoryID:      transaction.Data.CategoryID,
	}}, test.Authorization(suite.T(), other))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{})

	r := test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	checking := createTestAccount(suite.T(), v1.AccountEditable{})
	savings := createTestAccount(suite.T(), v1.AccountEditable{})
	food := createTestCategory(suite.T(), v1.CategoryEditable{Kind: models.CategoryKindExpense})
	salary := createTestCategory(suite.T(), v1.CategoryEditable{Kind: models.CategoryKindIncome})
	envelope := createTestAllocation(suite.T(), v1.AllocationEditable{})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:            models.TransactionKindExpense,
		Amount:          amount("10"),
		SourceAccountID: checking.Data.ID,
		CategoryID:      &food.Data.ID,
		Date:            time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		AllocationID:    &envelope.Data.ID,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:            models.TransactionKindIncome,
		Amount:          amount("1000"),
		SourceAccountID: checking.Data.ID,
		CategoryID:      &salary.Data.ID,
		Date:            time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:                 models.TransactionKindTransfer,
		Amount:               amount("200"),
		SourceAccountID:      checking.Data.ID,
		DestinationAccountID: &savings.Data.ID,
		Date:                 time.Date(2024, 4, 2, 23, 59, 0, 0, time.UTC),
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Expenses", "kind=expense", 1},
		{"Transfers", "kind=transfer", 1},
		{"Category", "category=" + food.Data.ID.String(), 1},
		{"Source account", "account=" + checking.Data.ID.String(), 3},
		{"Destination account", "account=" + savings.Data.ID.String(), 1},
		{"Allocation", "allocation=" + envelope.Data.ID.String(), 1},
		{"From date", "fromDate=2024-03-15", 2},
		{"Until date includes the whole day", "untilDate=2024-04-02", 3},
		{"Date range", "fromDate=2024-03-02&untilDate=2024-03-31", 1},
		{"No match", "kind=income&category=" + food.Data.ID.String(), 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/transactions?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, tt.len, response.Pagination.Count)
			assert.Equal(t, "", response.Pagination.Next)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetInvalidQuery() {
	tests := []string{
		"kind=refund",
		"category=notauuid",
		"fromDate=yesterday",
		"cursor=notacursor",
		"limit=many",
	}

	for _, query := range tests {
		suite.T().Run(query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/transactions?"+query, "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsPagination() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	created := make(map[uuid.UUID]bool)
	for i := 1; i <= 5; i++ {
		transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
			SourceAccountID: account.Data.ID,
			CategoryID:      &category.Data.ID,
			Date:            time.Date(2024, 3, i, 10, 0, 0, 0, time.UTC),
		})
		created[transaction.Data.ID] = false
	}

	var dates []time.Time
	cursor := ""
	pages := 0

	for {
		query := url.Values{"limit": {"2"}}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?"+query.Encode(), "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var response v1.TransactionListResponse
		test.DecodeResponse(suite.T(), &r, &response)
		suite.Assert().Equal(2, response.Pagination.Limit)
		pages++

		for _, transaction := range response.Data {
			seen, ok := created[transaction.ID]
			suite.Require().True(ok, "unknown transaction")
			suite.Require().False(seen, "transaction returned twice")
			created[transaction.ID] = true
			dates = append(dates, transaction.Date)
		}

		cursor = response.Pagination.Next
		if cursor == "" {
			break
		}

		suite.Require().Less(pages, 5, "pagination does not terminate")
	}

	suite.Assert().Equal(3, pages)
	suite.Require().Len(dates, 5)
	for i := 1; i < len(dates); i++ {
		suite.Assert().True(dates[i].Before(dates[i-1]), "transactions are sorted newest first")
	}
}

func (suite *TestSuiteStandard) TestTransactionsPaginationLimit() {
	tests := []struct {
		query string
		limit int
	}{
		{"", 50},
		{"limit=0", 50},
		{"limit=10", 10},
		{"limit=10000", 500},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/transactions?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.limit, response.Pagination.Limit)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCursorTampered() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	for i := 0; i < 3; i++ {
		_ = createTestTransaction(suite.T(), v1.TransactionEditable{SourceAccountID: account.Data.ID})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?limit=1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotEmpty(response.Pagination.Next)

	tampered := strings.ToUpper(response.Pagination.Next) + "!"
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?cursor="+url.QueryEscape(tampered), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
