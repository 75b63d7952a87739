package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Handlers for OPTIONS requests, named after the methods the endpoint allows
// in addition to OPTIONS.
var (
	OptionsGet            = allow(http.MethodGet)
	OptionsPost           = allow(http.MethodPost)
	OptionsGetPost        = allow(http.MethodGet, http.MethodPost)
	OptionsGetPatch       = allow(http.MethodGet, http.MethodPatch)
	OptionsGetPatchDelete = allow(http.MethodGet, http.MethodPatch, http.MethodDelete)
)

// allow answers with an empty body and the allowed methods in the allow header.
func allow(methods ...string) gin.HandlerFunc {
	header := strings.Join(append([]string{http.MethodOptions}, methods...), ", ")

	return func(c *gin.Context) {
		c.Header("allow", header)
		c.Render(http.StatusNoContent, render.JSON{})
	}
}
