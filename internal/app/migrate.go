package app

import (
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/attendance"
	"github.com/kamorahul/workforce-ai-sub001/internal/scheduler"
	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

// outboxDDL mirrors messaging/kafka.OutboxEvent, which is written with raw
// SQL and carries no gorm tags for AutoMigrate to read.
var outboxDDL = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		request_id TEXT,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		topic TEXT NOT NULL,
		payload JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMPTZ,
		error_message TEXT,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created_at
		ON outbox_events (status, created_at)`,
}

// migrate creates or updates the tables this service owns. presence_events
// is deliberately absent: the ingestion pipeline owns that table and this
// service only reads it.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&attendance.Record{},
		&timezone.WorkerTimezone{},
		&scheduler.JobRun{},
	); err != nil {
		return err
	}

	for _, stmt := range outboxDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
