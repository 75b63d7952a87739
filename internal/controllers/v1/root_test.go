package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/coincraft/backend/internal/controllers/v1"
	"github.com/coincraft/backend/test"
)

func (suite *TestSuiteStandard) TestRoot() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal(v1.Links{
		Accounts:     "http://example.com/v1/accounts",
		Categories:   "http://example.com/v1/categories",
		Allocations:  "http://example.com/v1/allocations",
		Transactions: "http://example.com/v1/transactions",
		Statistics:   "http://example.com/v1/statistics",
		Recap:        "http://example.com/v1/recap",
	}, response.Links)
}

func (suite *TestSuiteStandard) TestUnauthenticated() {
	for _, path := range []string{"/v1", "/v1/accounts", "/v1/allocations", "/v1/transactions", "/v1/statistics?preset=this-month"} {
		suite.T().Run(path, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com"+path, "", map[string]string{"Authorization": ""})
			test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)
		})
	}
}
