package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booking-backend/models"
	"booking-backend/utils"
)

// ContextUserID is where the caller identity lands in the gin context.
const ContextUserID = "userID"

// ContextAdmin holds the admin resolved by RequireAdmin.
const ContextAdmin = "admin"

// IdentityHeader carries the caller identity validated by the upstream
// authentication layer. The service consumes it, it never authenticates.
const IdentityHeader = "X-User-ID"

// AdminAuthenticator resolves an admin bearer token. Implemented by
// services.AuthService.
type AdminAuthenticator interface {
	ValidateToken(ctx context.Context, token string) (*models.Admin, error)
}

// RequireIdentity rejects requests without a caller identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(IdentityHeader))
		if userID == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missing caller identity")
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the caller identity set by RequireIdentity.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireAdmin validates the bearer token against issued admin sessions.
func RequireAdmin(auth AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		admin, err := auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			utils.JSONAppError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdmin, admin)
		c.Next()
	}
}
