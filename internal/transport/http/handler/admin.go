package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"polyi/internal/bootstrap"
	"polyi/internal/transport/http/response"
)

type AdminHandler struct {
	app *bootstrap.App
}

func NewAdminHandler(app *bootstrap.App) *AdminHandler {
	return &AdminHandler{app: app}
}

// Reindex rebuilds the retrieval index from the document sources. On failure
// the previous index stays in service.
func (h *AdminHandler) Reindex(c *gin.Context) {
	ix, err := h.app.Reindex(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("reindex failed")
		response.Error(c, http.StatusInternalServerError, "reindex failed: "+err.Error())
		return
	}
	response.OK(c, gin.H{
		"chunks":    ix.Len(),
		"dimension": ix.Dimension(),
		"reduced":   ix.Reduced(),
	})
}
