package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agendasalud/scheduling-api/internal/handler"
	"github.com/agendasalud/scheduling-api/pkg/auth"
)

// Context keys populated by Authenticate.
const (
	ContextWorkerID  = "workerID"
	ContextRole      = "role"
	ContextCenterID  = "centerID"
	ContextSessionID = "sessionID"
	ContextClaims    = "claims"
)

type AuthMiddleware struct {
	jwt     *auth.JWTService
	revoker auth.TokenRevoker
}

func NewAuthMiddleware(jwt *auth.JWTService, revoker auth.TokenRevoker) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, revoker: revoker}
}

// Authenticate verifies the bearer token and sets worker identity in
// the context. Revoked tokens are rejected; a failing revocation check
// is logged and the token accepted, since signature and expiry were
// already verified.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn().Err(err).Msg("token revocation check failed")
			} else if revoked {
				c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("token has been revoked"))
				c.Abort()
				return
			}
		}

		c.Set(ContextWorkerID, claims.WorkerID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextCenterID, claims.CenterID)
		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole restricts a route group to workers with one of the given
// roles.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
		c.Abort()
	}
}

// WorkerID returns the authenticated worker's ID from the context.
func WorkerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextWorkerID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CenterID returns the authenticated worker's center from the context.
func CenterID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextCenterID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// TokenClaims returns the full validated claims from the context.
func TokenClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
