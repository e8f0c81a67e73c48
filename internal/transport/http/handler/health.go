package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"polyi/internal/bootstrap"
	"polyi/internal/transport/http/response"
)

type HealthHandler struct {
	app *bootstrap.App
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":          "healthy",
		"service":         h.app.Config.App.Name,
		"model_loaded":    h.app.Router.ModelAvailable(),
		"rag_initialized": h.app.Index.Ready(),
		"uptime_sec":      int(time.Since(h.app.StartedAt).Seconds()),
	})
}

func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"service":         h.app.Config.App.Name,
		"model":           h.app.Router.ModelName(),
		"embedding_model": h.app.Embedder.Model(),
		"rag_initialized": false,
		"top_k":           h.app.Config.RAG.TopK,
	}
	if ix := h.app.Index.Current(); ix != nil {
		info["rag_initialized"] = true
		info["chunks"] = ix.Len()
		info["dimension"] = ix.Dimension()
		info["reduced"] = ix.Reduced()
	}
	response.OK(c, info)
}
