package httputil

import "github.com/coincraft/backend/internal/models"

var (
	ErrInvalidBody      = models.Invalid("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrRequestBodyEmpty = models.Invalid("the request body must not be empty")
	ErrInvalidQuery     = models.Invalid("the query string contains unparseable data. Please check the values")
)
