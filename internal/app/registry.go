package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/attendance"
	"github.com/kamorahul/workforce-ai-sub001/internal/bootstrap"
	"github.com/kamorahul/workforce-ai-sub001/internal/config"
	"github.com/kamorahul/workforce-ai-sub001/internal/messaging/kafka"
	"github.com/kamorahul/workforce-ai-sub001/internal/middleware"
	"github.com/kamorahul/workforce-ai-sub001/internal/notify"
	"github.com/kamorahul/workforce-ai-sub001/internal/presence"
	"github.com/kamorahul/workforce-ai-sub001/internal/reconcile"
	"github.com/kamorahul/workforce-ai-sub001/internal/scheduler"
	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Repositories ---
	presenceRepo := presence.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB, db)
	timezoneRepo := timezone.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	runStore := scheduler.NewRunStore(gormDB)

	// --- Services ---
	resolver := timezone.NewResolver(timezoneRepo)
	notifier := notify.NewOutboxNotifier(outboxRepo, cfg.NotifyTopic)
	attendanceService := attendance.NewServiceWithNotifier(db, attendanceRepo, resolver, notifier)
	timezoneService := timezone.NewService(timezoneRepo)
	engine := reconcile.NewEngine(db, presenceRepo, attendanceRepo, resolver, notifier, cfg.ReconcileTZ)

	// The api process never runs the daily loop; it holds a scheduler only so
	// operators can trigger and inspect runs over HTTP. The Redis lock and
	// the job_runs claim keep a manual trigger from racing the worker.
	sched := scheduler.NewScheduler(
		engine,
		runStore,
		rdb,
		bootstrap.NewStdoutAuditLogger(),
		cfg.ReconcileRunAt,
		cfg.ReconcileTZ,
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	timezoneHandler := timezone.NewHandler(timezoneService)
	schedulerHandler := scheduler.NewHandler(sched)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))
	{
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		timezone.RegisterRoutes(api, timezoneHandler)
		scheduler.RegisterRoutes(api, schedulerHandler, cfg.ServiceKey)
	}

	router.GET("/healthz", healthCheck(db, rdb))

	return nil
}

func healthCheck(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
