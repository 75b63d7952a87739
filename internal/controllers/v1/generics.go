package v1

import (
	"github.com/coincraft/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// findOwned binds the ID from the URI and loads the resource with that
// ID into dest if it belongs to the caller.
func findOwned(c *gin.Context, dest models.Model) error {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return err
	}

	return models.FirstOwned(db(c), owner(c), dest, uri.ID.UUID)
}

// optionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func optionsDetail(c *gin.Context, resource models.Model, options gin.HandlerFunc) {
	err := findOwned(c, resource)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	options(c)
}
