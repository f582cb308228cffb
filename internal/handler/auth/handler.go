package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendasalud/scheduling-api/internal/handler"
	"github.com/agendasalud/scheduling-api/internal/middleware"
	"github.com/agendasalud/scheduling-api/internal/model"
	"github.com/agendasalud/scheduling-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated endpoints. The
// centers listing is public because the login form needs it.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.GET("/centers", h.ListCenters)
}

// RegisterProtectedRoutes mounts the endpoints requiring a valid token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) ListCenters(c *gin.Context) {
	centers, err := h.service.Centers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(centers))
}

func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing token claims"))
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"logged_out": true}))
}
