package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/response"
)

// ServiceKey guards operational routes with a static shared secret in the
// X-Service-Key header. The surrounding platform authenticates end users;
// this service only talks to other services, so a shared key is the whole
// auth surface. An empty configured key refuses everything rather than
// failing open.
func ServiceKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable,
				"Service key is not configured", nil)
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Service-Key")
		if provided == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Service key not found", nil)
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid service key", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
