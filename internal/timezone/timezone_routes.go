package timezone

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	workers := r.Group("/workers")
	{
		workers.PUT("/:id/timezone", h.Set)
		workers.GET("/:id/timezone", h.Get)
	}
}
