package middleware

import (
	"net/http"
	"strings"

	"campus-sublets/internal/auth"
	apperrors "campus-sublets/internal/errors"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey   = "user_id"
	FullNameKey = "full_name"
	EmailKey    = "email"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := auth.ValidateJWT(parts[1], secret)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(FullNameKey, claims.FullName)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	_ = c.Error(apperrors.NewAppError(reason, apperrors.MsgUnauthorized, apperrors.ErrCodeUnauthorized, http.StatusUnauthorized, apperrors.ErrUnauthorized))
	c.Abort()
}

// CurrentUserID returns the authenticated user's id, or "" when the request
// is anonymous.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
