package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/response"
)

// Idempotency replays the cached response for a POST retried with the same
// Idempotency-Key, and rejects a retry that arrives while the first attempt
// is still in flight. The handler finishes the contract: it caches its
// response under idempotency_cache_key and releases idempotency_lock_key.
// Requests without the header pass straight through.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Abort()
				response.Success(c, http.StatusOK, cached, nil)
				return
			}
		}

		// SetNX with a short expiry: a crashed attempt frees itself.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.Abort()
			response.Error(c, http.StatusConflict, "PROCESSING",
				"A request with this Idempotency-Key is still being processed", nil)
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
