package agenda

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/handler"
	"github.com/agendasalud/scheduling-api/internal/middleware"
	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/service/scheduling"
)

// Handler serves the health-worker agenda: the worker's own day view
// plus per-appointment detail and status updates. Identity always
// comes from the token, never from the request.
type Handler struct {
	service *scheduling.Service
}

func NewHandler(service *scheduling.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/agenda", h.DailyAgenda)
	r.GET("/agenda/:id", h.AppointmentDetail)
	r.PUT("/agenda/:id/status", h.UpdateStatus)
}

// DailyAgenda returns the authenticated worker's appointments for the
// requested date (today when omitted) at their token's center.
func (h *Handler) DailyAgenda(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing worker identity"))
		return
	}
	centerID, ok := middleware.CenterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing center identity"))
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	rows, err := h.service.DailyAgenda(c.Request.Context(), workerID, centerID, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":         date,
		"appointments": rows,
	}))
}

// AppointmentDetail returns the full joined view of one appointment,
// restricted to the authenticated worker's own bookings.
func (h *Handler) AppointmentDetail(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing worker identity"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	detail, err := h.service.AppointmentDetail(c.Request.Context(), id, &workerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail))
}

type updateStatusRequest struct {
	Status model.AppointmentStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"status": req.Status}))
}
