package scheduler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendasalud/scheduling-api/internal/handler"
	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/repository"
	"github.com/agendasalud/scheduling-api/internal/service/scheduling"
)

// Handler serves the scheduler-facing booking endpoints: appointment
// CRUD, availability, and the worker directory used to populate
// booking forms.
type Handler struct {
	service    *scheduling.Service
	workerRepo repository.WorkerRepository
}

func NewHandler(service *scheduling.Service, workerRepo repository.WorkerRepository) *Handler {
	return &Handler{
		service:    service,
		workerRepo: workerRepo,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.CancelAppointment)
	}

	r.GET("/availability", h.Availability)
	r.GET("/workers", h.ListWorkers)
	r.GET("/specialties", h.ListSpecialties)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appointment))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	detail, err := h.service.AppointmentDetail(c.Request.Context(), id, nil)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var patch model.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.UpdateAppointment(c.Request.Context(), id, &patch)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.CancelAppointment(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cancelled": true}))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters

	if v := c.Query("worker_id"); v != "" {
		workerID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid worker ID"))
			return
		}
		filters.WorkerID = &workerID
	}
	if v := c.Query("center_id"); v != "" {
		centerID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid center ID"))
			return
		}
		filters.CenterID = &centerID
	}
	if v := c.Query("date"); v != "" {
		filters.Date = &v
	}
	if v := c.Query("status"); v != "" {
		status := model.AppointmentStatus(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid status"))
			return
		}
		filters.Status = &status
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), &filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// Availability returns the free half-hour slots for a worker at a
// center on a date.
func (h *Handler) Availability(c *gin.Context) {
	workerID, err := uuid.Parse(c.Query("worker_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid worker ID"))
		return
	}
	centerID, err := uuid.Parse(c.Query("center_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid center ID"))
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date is required"))
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), workerID, centerID, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":  date,
		"slots": slots,
	}))
}

// ListWorkers returns bookable health workers, optionally scoped to a
// center or filtered by specialty.
func (h *Handler) ListWorkers(c *gin.Context) {
	if specialty := c.Query("specialty"); specialty != "" {
		workers, err := h.workerRepo.ListBySpecialty(c.Request.Context(), specialty)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(workers))
		return
	}

	var centerID *uuid.UUID
	if v := c.Query("center_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid center ID"))
			return
		}
		centerID = &id
	}

	workers, err := h.workerRepo.ListHealthWorkers(c.Request.Context(), centerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(workers))
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.workerRepo.ListSpecialties(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(specialties))
}
