package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/auth"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextSessionID = "session_id"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates the bearer token and its backing session, then puts
// the caller's identity in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized("missing authorization header", nil))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthorized("invalid authorization format", nil))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			httputil.RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextSessionID, claims.SessionID)
		c.Next()
	}
}

// ClaimsFromContext rebuilds the identity the Authenticate middleware stored.
func ClaimsFromContext(c *gin.Context) *model.TokenClaims {
	claims := &model.TokenClaims{
		Email:     c.GetString(ContextUserEmail),
		SessionID: c.GetString(ContextSessionID),
	}
	if id, err := uuid.Parse(c.GetString(ContextUserID)); err == nil {
		claims.UserID = id
	}
	return claims
}
