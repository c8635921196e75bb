package web

import (
	"errors"
	"net/http"

	"github.com/KNICEX/ai-tutor/internal/service/chat"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/KNICEX/ai-tutor/internal/service/tutor"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc    *tutor.Service
	logger zerolog.Logger
}

func NewHandler(svc *tutor.Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type SendMessageResponse struct {
	tutor.Exchange
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

type SessionView struct {
	ID         string     `json:"id"`
	Transcript []llm.Turn `json:"transcript"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/sessions")
	g.POST("", h.CreateSession)
	g.GET("/:id", h.GetSession)
	g.DELETE("/:id", h.DeleteSession)
	g.POST("/:id/messages", h.SendMessage)
}

func (h *Handler) CreateSession(c *gin.Context) {
	session, err := h.svc.Sessions().Create(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionView{ID: session.ID(), Transcript: session.Transcript()})
}

func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.svc.Sessions().Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionView{ID: session.ID(), Transcript: session.Transcript()})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.svc.Sessions().Delete(c.Param("id")) {
		h.writeError(c, chat.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")
	ex, err := h.svc.Ask(c.Request.Context(), id, req.Content)
	if err != nil && len(ex.Reply.Parts) == 0 {
		h.writeError(c, err)
		return
	}
	resp := SendMessageResponse{Exchange: ex}
	if err != nil {
		h.logger.Warn().Err(err).Str("session", id).Msg("follow-up question failed")
		resp.Error = err.Error()
		resp.Retryable = llm.IsRetryable(err)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var genErr *llm.GenerationError
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, llm.ErrFileNotActive):
		status = http.StatusBadRequest
	case errors.As(err, &genErr):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Retryable: llm.IsRetryable(err)})
}
