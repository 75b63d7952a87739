package v1

import (
	"context"
	"net/http"

	"github.com/coincraft/backend/internal/httputil"
	"github.com/coincraft/backend/internal/ledger"
	"github.com/coincraft/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RegisterAllocationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAllocationList)
		r.GET("", GetAllocations)
		r.POST("", CreateAllocations)
	}
	{
		r.OPTIONS("/transfers", OptionsAllocationTransfers)
		r.POST("/transfers", CreateTransfer)
		r.OPTIONS("/verification", OptionsAllocationVerifications)
		r.GET("/verification", GetVerifications)
		r.OPTIONS("/rollover", OptionsAllocationRollover)
		r.POST("/rollover", CreateRollover)
		r.OPTIONS("/suggestions", OptionsAllocationSuggestions)
		r.GET("/suggestions", GetSuggestions)
	}
	{
		r.OPTIONS("/:id", OptionsAllocationDetail)
		r.GET("/:id", GetAllocation)
		r.PATCH("/:id", UpdateAllocation)
	}
	{
		r.OPTIONS("/:id/pause", OptionsAllocationTransition)
		r.POST("/:id/pause", PauseAllocation)
		r.OPTIONS("/:id/resume", OptionsAllocationTransition)
		r.POST("/:id/resume", ResumeAllocation)
		r.OPTIONS("/:id/abandon", OptionsAllocationTransition)
		r.POST("/:id/abandon", AbandonAllocation)
		r.OPTIONS("/:id/complete", OptionsAllocationTransition)
		r.POST("/:id/complete", CompleteAllocation)
	}
	{
		r.OPTIONS("/:id/contributions", OptionsAllocationContributions)
		r.GET("/:id/contributions", GetContributions)
		r.POST("/:id/contributions", CreateContribution)
		r.OPTIONS("/:id/verification", OptionsAllocationVerification)
		r.GET("/:id/verification", GetVerification)
		r.OPTIONS("/:id/reconcile", OptionsAllocationReconcile)
		r.POST("/:id/reconcile", ReconcileAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [options]
func OptionsAllocationDetail(c *gin.Context) {
	optionsDetail(c, &models.Allocation{}, httputil.OptionsGetPatch)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/pause [options]
// @Router			/v1/allocations/{id}/resume [options]
// @Router			/v1/allocations/{id}/abandon [options]
// @Router			/v1/allocations/{id}/complete [options]
func OptionsAllocationTransition(c *gin.Context) {
	optionsDetail(c, &models.Allocation{}, httputil.OptionsPost)
}

// @Summary		Create allocations
// @Description	Creates new envelopes and goals. The current amount of a new allocation is always zero.
// @Tags			Allocations
// @Produce		json
// @Success		201			{object}	AllocationCreateResponse
// @Failure		400			{object}	AllocationCreateResponse
// @Failure		403			{object}	AllocationCreateResponse
// @Failure		500			{object}	AllocationCreateResponse
// @Param			allocations	body		[]AllocationEditable	true	"Allocations"
// @Router			/v1/allocations [post]
func CreateAllocations(c *gin.Context) {
	var editables []AllocationEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := AllocationCreateResponse{}

	for _, editable := range editables {
		allocation, err := editable.model()
		if err == nil {
			allocation, err = ledger.CreateAllocation(c.Request.Context(), owner(c), allocation)
		}

		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newAllocation(c, allocation)
		r.Data = append(r.Data, AllocationResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get allocations
// @Description	Returns a list of envelopes and goals
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			kind	query	string	false	"Filter by kind, envelope or goal"
// @Param			active	query	bool	false	"Is the allocation active?"
// @Param			status	query	string	false	"Filter by status"
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first allocation returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of allocations to return. Defaults to 50."
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	// Get the parameters set in the query string
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model(owner(c))
	q := db(c).
		Order("name ASC, id ASC").
		Where("owner_id = ?", owner(c)).
		Where(&where, queryFields...)

	q = stringFilters(db(c), q, setFields, filter.Name, filter.Note, filter.Search)
	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var allocations []models.Allocation
	err := q.Find(&allocations).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, AllocationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get allocation
// @Description	Returns a specific envelope or goal
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		403	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [get]
func GetAllocation(c *gin.Context) {
	var allocation models.Allocation
	err := findOwned(c, &allocation)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Update allocation
// @Description	Updates an envelope or goal. Only values to be updated need to be specified. The kind and the current amount cannot be changed.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations/{id} [patch]
func UpdateAllocation(c *gin.Context) {
	var allocation models.Allocation
	err := findOwned(c, &allocation)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, AllocationEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	var data AllocationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	if len(updateFields) > 0 {
		var update models.Allocation
		update, err = data.model()
		if err == nil {
			allocation, err = ledger.UpdateAllocation(c.Request.Context(), owner(c), allocation.ID, update, updateFields...)
		}

		if err != nil {
			e := err.Error()
			c.JSON(status(err), AllocationResponse{
				Error: &e,
			})
			return
		}
	}

	apiResource := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &apiResource})
}

// transition runs a lifecycle transition on the allocation from the URI.
func transition(c *gin.Context, f func(context.Context, string, uuid.UUID) (models.Allocation, error)) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	allocation, err := f(c.Request.Context(), owner(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Pause allocation
// @Description	Pauses an active allocation. Paused allocations do not accept new contributions.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		403	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		409	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/pause [post]
func PauseAllocation(c *gin.Context) {
	transition(c, ledger.Pause)
}

// @Summary		Resume allocation
// @Description	Makes a paused allocation active again
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		403	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		409	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/resume [post]
func ResumeAllocation(c *gin.Context) {
	transition(c, ledger.Resume)
}

// @Summary		Abandon allocation
// @Description	Abandons an active or paused allocation. This cannot be undone.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		403	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		409	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/abandon [post]
func AbandonAllocation(c *gin.Context) {
	transition(c, ledger.Abandon)
}

// @Summary		Complete allocation
// @Description	Marks an active or paused allocation as completed. This cannot be undone.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		403	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		409	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/complete [post]
func CompleteAllocation(c *gin.Context) {
	transition(c, ledger.Complete)
}
