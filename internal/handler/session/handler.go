package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendasalud/scheduling-api/internal/handler"
	"github.com/agendasalud/scheduling-api/internal/middleware"
	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/service/session"
)

// Handler serves the worker's own session history.
type Handler struct {
	service *session.Service
}

func NewHandler(service *session.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessions", h.ListSessions)
}

// ListSessions returns the authenticated worker's sessions, optionally
// bounded by from/to dates.
func (h *Handler) ListSessions(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing worker identity"))
		return
	}

	dateRange := model.SessionRange{
		From: c.Query("from"),
		To:   c.Query("to"),
	}

	sessions, err := h.service.ListSessions(c.Request.Context(), workerID, dateRange)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sessions))
}
