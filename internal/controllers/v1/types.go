package v1

import (
	"time"

	"github.com/coincraft/backend/internal/auth"
	"github.com/coincraft/backend/internal/models"
	ez_uuid "github.com/coincraft/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// QueryDate is a single day.
type QueryDate struct {
	Date time.Time `form:"date" time_format:"2006-01-02" time_utc:"1" example:"2024-03-14"` // Day in YYYY-MM-DD format
}

// db returns the database scoped to the request.
func db(c *gin.Context) *gorm.DB {
	return models.DB.WithContext(c.Request.Context())
}

// owner is the ID of the authenticated caller.
func owner(c *gin.Context) string {
	return auth.Owner(c)
}

// paginate applies offset and limit to q. The limit defaults to 50.
func paginate(q *gorm.DB, setFields []string, offset uint, limit int) (*gorm.DB, int) {
	if !slices.Contains(setFields, "Limit") {
		limit = 50
	}

	return q.Offset(int(offset)).Limit(limit), limit
}
