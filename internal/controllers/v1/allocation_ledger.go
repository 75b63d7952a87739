package v1

import (
	"net/http"
	"time"

	"github.com/coincraft/backend/internal/httputil"
	"github.com/coincraft/backend/internal/ledger"
	"github.com/coincraft/backend/internal/models"
	"github.com/coincraft/backend/internal/money"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/contributions [options]
func OptionsAllocationContributions(c *gin.Context) {
	optionsDetail(c, &models.Allocation{}, httputil.OptionsGetPost)
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
// @Router			/v1/allocations/{id}/verification [options]
func OptionsAllocationVerification(c *gin.Context) {
	optionsDetail(c, &models.Allocation{}, httputil.OptionsGet)
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
// @Router			/v1/allocations/{id}/reconcile [options]
func OptionsAllocationReconcile(c *gin.Context) {
	optionsDetail(c, &models.Allocation{}, httputil.OptionsPost)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations/transfers [options]
func OptionsAllocationTransfers(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations/verification [options]
func OptionsAllocationVerifications(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations/rollover [options]
func OptionsAllocationRollover(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations/suggestions [options]
func OptionsAllocationSuggestions(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get contributions
// @Description	Returns the ledger of an allocation, oldest row first
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	ContributionListResponse
// @Failure		400	{object}	ContributionListResponse
// @Failure		403	{object}	ContributionListResponse
// @Failure		404	{object}	ContributionListResponse
// @Failure		500	{object}	ContributionListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/contributions [get]
func GetContributions(c *gin.Context) {
	var allocation models.Allocation
	err := findOwned(c, &allocation)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionListResponse{
			Error: &e,
		})
		return
	}

	var links []models.AllocationLink
	err = db(c).
		Where(&models.AllocationLink{AllocationID: allocation.ID}).
		Order("created_at ASC, id ASC").
		Find(&links).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Contribution, 0, len(links))
	for _, link := range links {
		data = append(data, newContribution(link))
	}

	c.JSON(http.StatusOK, ContributionListResponse{Data: data})
}

// @Summary		Contribute to goal
// @Description	Adds an amount directly to an active goal without a transaction
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		201				{object}	ContributionResponse
// @Failure		400				{object}	ContributionResponse
// @Failure		403				{object}	ContributionResponse
// @Failure		404				{object}	ContributionResponse
// @Failure		409				{object}	ContributionResponse
// @Failure		500				{object}	ContributionResponse
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			contribution	body		ContributionEditable	true	"Contribution"
// @Router			/v1/allocations/{id}/contributions [post]
func CreateContribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	var data ContributionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	amount, err := money.ToMinorPositive(data.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	allocation, link, err := ledger.Contribute(c.Request.Context(), owner(c), uri.ID.UUID, amount, data.Note)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusCreated, ContributionResponse{Data: &ContributionData{
		Contribution: newContribution(link),
		Allocation:   newAllocation(c, allocation),
	}})
}

// @Summary		Transfer between envelopes
// @Description	Moves target amount from one envelope to another. Current amounts are not changed.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransferResponse
// @Failure		400			{object}	TransferResponse
// @Failure		403			{object}	TransferResponse
// @Failure		404			{object}	TransferResponse
// @Failure		409			{object}	TransferResponse
// @Failure		500			{object}	TransferResponse
// @Param			transfer	body		TransferEditable	true	"Transfer"
// @Router			/v1/allocations/transfers [post]
func CreateTransfer(c *gin.Context) {
	var data TransferEditable
	err := httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	if data.SourceID == uuid.Nil || data.TargetID == uuid.Nil {
		e := errTransferMissing.Error()
		c.JSON(status(errTransferMissing), TransferResponse{
			Error: &e,
		})
		return
	}

	amount, err := money.ToMinorPositive(data.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	source, target, err := ledger.Transfer(c.Request.Context(), owner(c), data.SourceID, data.TargetID, amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, TransferResponse{Data: &TransferData{
		Source: newAllocation(c, source),
		Target: newAllocation(c, target),
	}})
}

// @Summary		Verify allocation
// @Description	Compares the current amount of an allocation with the sum of its ledger
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	VerificationResponse
// @Failure		400	{object}	VerificationResponse
// @Failure		403	{object}	VerificationResponse
// @Failure		404	{object}	VerificationResponse
// @Failure		500	{object}	VerificationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/verification [get]
func GetVerification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VerificationResponse{
			Error: &e,
		})
		return
	}

	report, err := ledger.Verify(c.Request.Context(), owner(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VerificationResponse{
			Error: &e,
		})
		return
	}

	data := newVerification(report)
	c.JSON(http.StatusOK, VerificationResponse{Data: &data})
}

// @Summary		Verify all allocations
// @Description	Compares the current amount of every allocation with the sum of its ledger
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	VerificationListResponse
// @Failure		500	{object}	VerificationListResponse
// @Router			/v1/allocations/verification [get]
func GetVerifications(c *gin.Context) {
	reports, err := ledger.VerifyAll(c.Request.Context(), owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VerificationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Verification, 0, len(reports))
	for _, report := range reports {
		data = append(data, newVerification(report))
	}

	c.JSON(http.StatusOK, VerificationListResponse{Data: data})
}

// @Summary		Reconcile allocation
// @Description	Sets the current amount of an allocation to the sum of its ledger. Returns the report from before the repair.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	VerificationResponse
// @Failure		400	{object}	VerificationResponse
// @Failure		403	{object}	VerificationResponse
// @Failure		404	{object}	VerificationResponse
// @Failure		500	{object}	VerificationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/reconcile [post]
func ReconcileAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VerificationResponse{
			Error: &e,
		})
		return
	}

	report, err := ledger.Reconcile(c.Request.Context(), owner(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VerificationResponse{
			Error: &e,
		})
		return
	}

	data := newVerification(report)
	c.JSON(http.StatusOK, VerificationResponse{Data: &data})
}

// @Summary		Roll over envelopes
// @Description	Starts a new budget period for every envelope of the caller whose period has ended
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	RolloverResponse
// @Failure		500	{object}	RolloverResponse
// @Router			/v1/allocations/rollover [post]
func CreateRollover(c *gin.Context) {
	results, err := ledger.Rollover(c.Request.Context(), owner(c), time.Now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RolloverResponse{
			Error: &e,
		})
		return
	}

	data := make([]Rollover, 0, len(results))
	for _, result := range results {
		data = append(data, Rollover{
			AllocationID: result.AllocationID,
			Periods:      result.Periods,
			Amount:       money.FromMinor(result.Amount),
			PeriodStart:  result.PeriodStart,
		})
	}

	c.JSON(http.StatusOK, RolloverResponse{Data: data})
}

// @Summary		Get suggestions
// @Description	Returns the active allocations a transaction with the given category or note likely belongs to
// @Tags			Allocations
// @Produce		json
// @Success		200			{object}	AllocationListResponse
// @Failure		400			{object}	AllocationListResponse
// @Failure		500			{object}	AllocationListResponse
// @Param			category	query		string	false	"ID of the category of the transaction"
// @Param			note		query		string	false	"Note of the transaction"
// @Router			/v1/allocations/suggestions [get]
func GetSuggestions(c *gin.Context) {
	var query SuggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	allocations, err := ledger.Suggest(c.Request.Context(), owner(c), query.CategoryID.Pointer(), query.Note)
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

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}
