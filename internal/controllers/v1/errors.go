package v1

import (
	"errors"
	"net/http"

	"github.com/coincraft/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the allocation is paused, abandoned or completed"`
}

// status returns the HTTP status for an error.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAllocationInactive):
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var (
	errRangeMissing    = models.Invalid("either a preset or both fromDate and untilDate must be set")
	errCategoryInUse   = models.Invalid("the kind of a category that is used by transactions cannot be changed")
	errTransferMissing = models.Invalid("sourceId and targetId must be set")
)
