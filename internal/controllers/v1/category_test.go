package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/coincraft/backend/internal/controllers/v1"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestCategoriesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestCategoriesOptions() {
	tests := []struct {
		name   string
		id     string // path at the Categories endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Category with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Category exists", createTestCategory(suite.T(), v1.CategoryEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/categories", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	tests := []struct {
		name     string
		category v1.CategoryEditable
		status   int
		errorMsg string
	}{
		{"Expense", v1.CategoryEditable{Name: "Groceries", Kind: models.CategoryKindExpense, Icon: "cart", Color: "#4caf50"}, http.StatusCreated, ""},
		{"Income", v1.CategoryEditable{Name: "Salary", Kind: models.CategoryKindIncome}, http.StatusCreated, ""},
		{"Invalid kind", v1.CategoryEditable{Name: "Transfers", Kind: "transfer"}, http.StatusBadRequest, models.ErrCategoryKindInvalid.Error()},
		{"Empty name", v1.CategoryEditable{Name: "  ", Kind: models.CategoryKindExpense}, http.StatusBadRequest, models.ErrNameEmpty.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", []v1.CategoryEditable{tt.category})
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.CategoryCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.errorMsg != "" {
				assert.Equal(t, tt.errorMsg, *response.Data[0].Error)
				return
			}

			assert.Equal(t, tt.category.Name, response.Data[0].Data.Name)
			assert.Equal(t, tt.category.Kind, response.Data[0].Data.Kind)
		})
	}
}

// TestCategoriesCreateMixed verifies that a batch with failing resources
// returns the highest status code and creates all valid resources.
func (suite *TestSuiteStandard) TestCategoriesCreateMixed() {
	body := []v1.CategoryEditable{
		{Name: "Rent", Kind: models.CategoryKindExpense},
		{Name: "Broken", Kind: "unknown"},
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/categories", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CategoryCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Rent", response.Data[0].Data.Name)
	suite.Assert().NotNil(response.Data[1].Error)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	var list v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 1)
}

func (suite *TestSuiteStandard) TestCategoriesGetFilter() {
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries", Kind: models.CategoryKindExpense})
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Restaurants", Kind: models.CategoryKindExpense})
	_ = createTestCategory(suite.T(), v1.CategoryEditable{Name: "Salary", Kind: models.CategoryKindIncome})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Expense", "kind=expense", 2},
		{"Income", "kind=income", 1},
		{"Name", "name=rest", 1},
		{"Limit", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/categories?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CategoryListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesUpdate() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Food", Kind: models.CategoryKindExpense})
	path := "http://example.com/v1/categories/" + c.Data.ID.String()

	r := test.Request(suite.T(), http.MethodPatch, path, map[string]any{"name": "Groceries", "color": "#ff0000"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Groceries", response.Data.Name)
	suite.Assert().Equal("#ff0000", response.Data.Color)
	suite.Assert().Equal(models.CategoryKindExpense, response.Data.Kind)

	// The kind can change while no transaction uses the category
	r = test.Request(suite.T(), http.MethodPatch, path, map[string]any{"kind": "income"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestCategoriesKindInUse() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Kind: models.CategoryKindExpense})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{CategoryID: &c.Data.ID})

	r := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/categories/"+c.Data.ID.String(), map[string]any{"kind": "income"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(r.Body.String(), "used by transactions cannot be changed")

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/categories/"+c.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCategoriesForeignOwner() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		suite.T().Run(method, func(t *testing.T) {
			r := test.Request(t, method, "http://example.com/v1/categories/"+c.Data.ID.String(), "", test.Authorization(t, other))
			test.AssertHTTPStatus(t, &r, http.StatusForbidden)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesDelete() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/categories/"+c.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories/"+c.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
