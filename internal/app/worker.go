package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kamorahul/workforce-ai-sub001/internal/attendance"
	"github.com/kamorahul/workforce-ai-sub001/internal/bootstrap"
	"github.com/kamorahul/workforce-ai-sub001/internal/config"
	"github.com/kamorahul/workforce-ai-sub001/internal/messaging/kafka"
	"github.com/kamorahul/workforce-ai-sub001/internal/messaging/kafka/producer"
	"github.com/kamorahul/workforce-ai-sub001/internal/notify"
	"github.com/kamorahul/workforce-ai-sub001/internal/presence"
	"github.com/kamorahul/workforce-ai-sub001/internal/reconcile"
	"github.com/kamorahul/workforce-ai-sub001/internal/scheduler"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/connection"
	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

// RunWorker starts the background process: the nightly reconciliation loop
// and the outbox publisher that drains queued notifications to Kafka. It
// blocks until SIGINT/SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// The worker claims job_runs rows at startup, so it cannot assume the
	// api process already migrated. DDL here is idempotent.
	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	presenceRepo := presence.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB, sqlDB)
	timezoneRepo := timezone.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	resolver := timezone.NewResolver(timezoneRepo)
	notifier := notify.NewOutboxNotifier(outboxRepo, cfg.NotifyTopic)
	engine := reconcile.NewEngine(sqlDB, presenceRepo, attendanceRepo, resolver, notifier, cfg.ReconcileTZ)

	sched := scheduler.NewScheduler(
		engine,
		scheduler.NewRunStore(gormDB),
		redisClient,
		bootstrap.NewStdoutAuditLogger(),
		cfg.ReconcileRunAt,
		cfg.ReconcileTZ,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The downstream messenger throttles hard, so publishing is paced rather
	// than dumped as fast as the outbox drains.
	limiter := rate.NewLimiter(rate.Limit(cfg.NotifyRate), cfg.NotifyBurst)

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		limiter,
		logger,
		cfg.OutboxPollInterval,
	)

	go sched.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
