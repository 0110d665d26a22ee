package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kamorahul/workforce-ai-sub001/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	attendances := r.Group("/attendances")
	{
		attendances.GET("", h.List)
		if redisClient != nil {
			attendances.POST("/check-in", middleware.RateLimitByIP(5, 10), middleware.Idempotency(redisClient), h.CheckIn)
			attendances.POST("/check-out", middleware.RateLimitByIP(5, 10), middleware.Idempotency(redisClient), h.CheckOut)
		} else {
			attendances.POST("/check-in", middleware.RateLimitByIP(5, 10), h.CheckIn)
			attendances.POST("/check-out", middleware.RateLimitByIP(5, 10), h.CheckOut)
		}
	}
}
