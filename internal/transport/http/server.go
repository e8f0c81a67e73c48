package http

import (
	"github.com/gin-gonic/gin"

	"polyi/internal/bootstrap"
	"polyi/internal/transport/http/handler"
)

// NewRouter wires the HTTP surface onto the application context.
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	generateHandler := handler.NewGenerateHandler(app.Router)
	embedHandler := handler.NewEmbedHandler(app.Embeds)
	adminHandler := handler.NewAdminHandler(app)

	r.GET("/health", healthHandler.Health)
	r.GET("/info", healthHandler.Info)
	r.POST("/generate", generateHandler.Generate)
	r.POST("/embed", embedHandler.Embed)
	r.POST("/admin/reindex", adminHandler.Reindex)

	return r
}
