package middleware

import (
	"context"
	"strings"

	"eventix_backend/internal/auth"
	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "userID"
	ContextRoles  = "roles"
)

// Authenticator resolves a bearer token to an active user with roles loaded.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware verifies the bearer token and stores the caller's id and
// roles on the gin context.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := authn.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextRoles, user.RoleNames())
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// RequireRoles lets the request through when the caller holds any of roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasAnyRole(GetRoles(c), roles...) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func GetRoles(c *gin.Context) []string {
	return c.GetStringSlice(ContextRoles)
}
