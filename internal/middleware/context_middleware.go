package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/contextutil"
)

// ContextLogger decorates a request-scoped logger with the request ID and
// stores it in the standard context, so service and repository layers log
// correlated lines without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// Reuses the id RequestID() propagated when it ran upstream; minting
		// here too would split one request across two ids.
		rid := contextutil.GetRequestID(ctx)
		if rid == "" {
			rid = c.GetHeader("X-Request-ID")
		}
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("path", c.FullPath()),
		)

		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
