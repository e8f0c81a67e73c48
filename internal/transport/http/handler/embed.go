package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"polyi/internal/app"
	"polyi/internal/transport/http/response"
)

type EmbedHandler struct {
	svc *app.EmbedService
}

func NewEmbedHandler(svc *app.EmbedService) *EmbedHandler {
	return &EmbedHandler{svc: svc}
}

type embedRequest struct {
	Text      string   `json:"text"`
	Texts     []string `json:"texts"`
	Clean     *bool    `json:"clean"`
	Chunk     *bool    `json:"chunk"`
	MaxLen    int      `json:"max_len"`
	Overlap   *int     `json:"overlap"`
	ReduceDim *int     `json:"reduce_dim"`
}

func (h *EmbedHandler) Embed(c *gin.Context) {
	var req embedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	texts := req.Texts
	if len(texts) == 0 && req.Text != "" {
		texts = []string{req.Text}
	}
	if len(texts) == 0 {
		response.Error(c, http.StatusBadRequest, "text or texts is required")
		return
	}

	in := app.EmbedInput{
		Texts:   texts,
		Clean:   true,
		Chunk:   true,
		MaxLen:  req.MaxLen,
		Overlap: 80,
	}
	if req.Clean != nil {
		in.Clean = *req.Clean
	}
	if req.Chunk != nil {
		in.Chunk = *req.Chunk
	}
	if req.Overlap != nil {
		in.Overlap = *req.Overlap
	}
	if req.ReduceDim != nil {
		in.ReduceDim = *req.ReduceDim
	} else {
		in.ReduceDim = app.DefaultReduceDim
	}

	result, err := h.svc.Generate(c.Request.Context(), in)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.OK(c, result)
}
