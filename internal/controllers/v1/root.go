package v1

import (
	"net/http"

	"github.com/coincraft/backend/internal/httputil"
	"github.com/coincraft/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all v1 resources on r.
func RegisterRoutes(r *gin.RouterGroup) {
	{
		r.GET("", Get)
		r.OPTIONS("", Options)
	}

	RegisterAccountRoutes(r.Group("/accounts"))
	RegisterCategoryRoutes(r.Group("/categories"))
	RegisterAllocationRoutes(r.Group("/allocations"))
	RegisterTransactionRoutes(r.Group("/transactions"))
	RegisterStatisticsRoutes(r.Group("/statistics"))
	RegisterRecapRoutes(r.Group("/recap"))
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Accounts     string `json:"accounts" example:"https://example.com/api/v1/accounts"`         // URL of Account collection endpoint
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories"`     // URL of Category collection endpoint
	Allocations  string `json:"allocations" example:"https://example.com/api/v1/allocations"`   // URL of Allocation collection endpoint
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"` // URL of Transaction collection endpoint
	Statistics   string `json:"statistics" example:"https://example.com/api/v1/statistics"`     // URL of the statistics endpoint
	Recap        string `json:"recap" example:"https://example.com/api/v1/recap"`               // URL of the recap endpoint
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	Response
// @Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Accounts:     url + "/v1/accounts",
			Categories:   url + "/v1/categories",
			Allocations:  url + "/v1/allocations",
			Transactions: url + "/v1/transactions",
			Statistics:   url + "/v1/statistics",
			Recap:        url + "/v1/recap",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
