package scheduler

import (
	"github.com/gin-gonic/gin"

	"github.com/kamorahul/workforce-ai-sub001/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, serviceKey string) {
	runs := r.Group("/reconciliation/runs")
	runs.Use(middleware.ServiceKey(serviceKey))
	{
		runs.POST("", h.Trigger)
		runs.GET("", h.List)
	}
}
