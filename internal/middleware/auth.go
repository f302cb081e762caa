package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fwork_backend/internal/auth"
	"fwork_backend/internal/logger"
	"fwork_backend/internal/models"
	"fwork_backend/pkg/apperrors"
	"fwork_backend/pkg/contextkeys"
)

// AuthMiddleware validates the Bearer token and places userID and role
// into the gin context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header is missing"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header must be in the form 'Bearer <token>'"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Token validation failed",
				"error", err.Error(),
				"ip", c.ClientIP(),
			)
			if err == auth.ErrTokenExpired {
				apperrors.HandleError(c, apperrors.New(apperrors.CodeTokenExpired, "auth", "Token has expired", 401))
			} else {
				apperrors.HandleError(c, apperrors.ErrInvalidToken)
			}
			c.Abort()
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated user has one of
// the given roles. Must be placed after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(contextkeys.RoleKey)
		if !exists {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User role not found in context"))
			c.Abort()
			return
		}

		var role models.UserRole
		switch v := roleVal.(type) {
		case models.UserRole:
			role = v
		case string:
			role = models.UserRole(v)
		default:
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid role type in context"))
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		logger.CtxWarn(c.Request.Context(), "Access denied by role",
			"role", string(role),
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		c.Abort()
	}
}

// GetUserID is a convenience accessor for code that runs after
// AuthMiddleware and does not want the full handler helper.
func GetUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
