package encounter

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/agendasalud/scheduling-api/internal/handler"
	"github.com/agendasalud/scheduling-api/internal/middleware"
	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/service/encounter"
)

const (
	suggestionCacheTTL  = 10 * time.Minute
	suggestionCacheGC   = 30 * time.Minute
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// Handler serves clinical encounter endpoints for health workers. The
// diagnosis catalog changes rarely, so autocomplete suggestions are
// cached in-process.
type Handler struct {
	service *encounter.Service
	cache   *gocache.Cache
}

func NewHandler(service *encounter.Service) *Handler {
	return &Handler{
		service: service,
		cache:   gocache.New(suggestionCacheTTL, suggestionCacheGC),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/encounters/:appointment_id", h.GetByAppointment)
	r.POST("/encounters", h.Save)
	r.GET("/diagnoses/suggest", h.SuggestDiagnoses)
}

func (h *Handler) GetByAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("appointment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	enc, err := h.service.GetByAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		c.Error(err)
		return
	}
	if enc == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("encounter not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(enc))
}

// Save upserts the encounter for an appointment and returns the
// derived appointment status alongside it.
func (h *Handler) Save(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing worker identity"))
		return
	}

	var req model.SaveEncounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Save(c.Request.Context(), workerID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

// SuggestDiagnoses returns catalog matches for an autocomplete term.
func (h *Handler) SuggestDiagnoses(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("q is required"))
		return
	}

	limit := defaultSuggestLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid limit"))
			return
		}
		if n > maxSuggestLimit {
			n = maxSuggestLimit
		}
		limit = n
	}

	cacheKey := strings.ToLower(term) + ":" + strconv.Itoa(limit)
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
		return
	}

	diagnoses, err := h.service.SuggestDiagnoses(c.Request.Context(), term, limit)
	if err != nil {
		c.Error(err)
		return
	}

	suggestions := make([]string, 0, len(diagnoses))
	for _, d := range diagnoses {
		suggestions = append(suggestions, d.DisplayText())
	}

	h.cache.Set(cacheKey, suggestions, gocache.DefaultExpiration)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(suggestions))
}
