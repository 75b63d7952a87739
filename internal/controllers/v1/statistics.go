package v1

import (
	"net/http"
	"time"

	"github.com/coincraft/backend/internal/httputil"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/statistics"
	"github.com/gin-gonic/gin"
)

func RegisterStatisticsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsStatistics)
	r.GET("", GetStatistics)
}

func RegisterRecapRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsRecap)
	r.GET("", GetRecap)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Statistics
// @Success		204
// @Router			/v1/statistics [options]
func OptionsStatistics(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Statistics
// @Success		204
// @Router			/v1/recap [options]
func OptionsRecap(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get statistics
// @Description	Aggregates the incomes and expenses of a date range. Either a preset or both dates are required.
// @Tags			Statistics
// @Produce		json
// @Success		200			{object}	SummaryResponse
// @Failure		400			{object}	SummaryResponse
// @Failure		500			{object}	SummaryResponse
// @Param			preset		query		string	false	"One of this-week, this-month, last-month, this-year, last-30-days"
// @Param			fromDate	query		string	false	"First day of the range, YYYY-MM-DD"
// @Param			untilDate	query		string	false	"Last day of the range, YYYY-MM-DD"
// @Router			/v1/statistics [get]
func GetStatistics(c *gin.Context) {
	var query StatisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{
			Error: &e,
		})
		return
	}

	r, err := query.dateRange(time.Now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &e,
		})
		return
	}

	summary, err := statistics.Summarize(c.Request.Context(), owner(c), r)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &e,
		})
		return
	}

	data := newSummary(summary)
	c.JSON(http.StatusOK, SummaryResponse{Data: &data})
}

// @Summary		Get recap
// @Description	Compares the incomes and expenses of a week, month or year with the period before
// @Tags			Statistics
// @Produce		json
// @Success		200		{object}	RecapResponse
// @Failure		400		{object}	RecapResponse
// @Failure		500		{object}	RecapResponse
// @Param			period	query		string	true	"One of week, month, year"
// @Param			date	query		string	false	"Any day of the period, YYYY-MM-DD. Defaults to today."
// @Router			/v1/recap [get]
func GetRecap(c *gin.Context) {
	var query RecapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, RecapResponse{
			Error: &e,
		})
		return
	}

	if query.Date.IsZero() {
		query.Date = time.Now()
	}

	recap, err := statistics.NewRecap(c.Request.Context(), owner(c), query.Period, query.Date)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecapResponse{
			Error: &e,
		})
		return
	}

	data := newRecap(recap, c.GetString(string(models.DBContextCurrency)))
	c.JSON(http.StatusOK, RecapResponse{Data: &data})
}
