package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"polyi/internal/app"
	"polyi/internal/transport/http/response"
)

type GenerateHandler struct {
	router *app.Router
}

func NewGenerateHandler(router *app.Router) *GenerateHandler {
	return &GenerateHandler{router: router}
}

type generateRequest struct {
	Prompt      string  `json:"prompt" binding:"required"`
	UserID      string  `json:"user_id"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Language    string  `json:"language"`
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	answer := h.router.Handle(c.Request.Context(), app.GenerateInput{
		Prompt:      req.Prompt,
		UserID:      req.UserID,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Language:    req.Language,
	})
	response.OK(c, answer)
}
