package middleware

import (
	"campus-sublets/internal/errors"
	"campus-sublets/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached to the context.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := errors.MapError(err)

		logf := logger.GlobalLogger.Warnf
		if appErr.HTTPStatus >= 500 {
			logf = logger.GlobalLogger.Errorf
		}
		logf("Request failed: path=%s, method=%s, client_ip=%s, request_id=%s, code=%s, error=%s",
			c.Request.URL.Path,
			c.Request.Method,
			c.ClientIP(),
			c.GetString(RequestIDKey),
			appErr.Code,
			appErr.TechnicalMessage)

		c.JSON(appErr.HTTPStatus, gin.H{
			"error": gin.H{
				"message": appErr.UserMessage,
				"code":    appErr.Code,
			},
		})
	}
}
