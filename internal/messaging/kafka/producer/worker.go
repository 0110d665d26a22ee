package producer

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kamorahul/workforce-ai-sub001/internal/messaging/kafka"
)

// maxPublishAttempts is how many deliveries we try before parking an event
// as dead. With the repository's 15s-per-retry backoff that is roughly ten
// minutes of broker outage tolerance.
const maxPublishAttempts = 10

// ProcessOutboxEvents drains pending outbox rows to Kafka on a poll loop
// until ctx is cancelled. limiter paces publishes so a backlog flush cannot
// flood the downstream messenger; nil means unpaced.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	limiter *rate.Limiter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := processPendingEvents(ctx, repo, writer, limiter, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	limiter *rate.Limiter,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, 50)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				// ctx cancelled mid-batch; the remainder stays pending.
				return err
			}
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			if event.RetryCount+1 >= maxPublishAttempts {
				logger.Error("outbox event dead-lettered",
					zap.String("outbox_id", event.ID),
					zap.String("event_type", event.EventType),
					zap.String("topic", event.Topic),
					zap.Int("attempts", event.RetryCount+1),
					zap.Error(err),
				)
				_ = repo.MarkDead(ctx, event.ID, err.Error())
				continue
			}
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}
