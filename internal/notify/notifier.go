package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamorahul/workforce-ai-sub001/internal/events"
	"github.com/kamorahul/workforce-ai-sub001/internal/messaging/kafka"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/contextutil"
)

// Notification is everything needed to tell a worker about a new attendance
// record. Timezone is the IANA name the delivery text is rendered in, so the
// worker reads their own wall-clock time, not UTC.
type Notification struct {
	RecordID   uuid.UUID
	WorkerID   uuid.UUID
	ProjectID  uuid.UUID
	Status     string
	Source     string
	OccurredAt time.Time
	Timezone   string
}

// Notifier hands a notification to the surrounding messaging system. The
// transport itself (chat delivery, push fan-out) lives outside this service;
// implementations here only have to get the message durably on its way.
type Notifier interface {
	RecordCreated(ctx context.Context, tx *sql.Tx, n Notification) error
}

type nopNotifier struct{}

func (nopNotifier) RecordCreated(context.Context, *sql.Tx, Notification) error {
	return nil
}

// NewNopNotifier returns a Notifier that drops everything. Used when the
// messaging hand-off is disabled.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

// OutboxNotifier stores notifications in the transactional outbox, sharing
// the caller's transaction so a record and its notification commit or roll
// back together. The worker process drains the outbox to Kafka.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	topic  string
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, topic string) *OutboxNotifier {
	if topic == "" {
		topic = events.AttendanceRecordedTopic
	}
	return &OutboxNotifier{
		outbox: outbox,
		topic:  topic,
		logger: zap.L().Named("notify.outbox"),
	}
}

func (n *OutboxNotifier) RecordCreated(ctx context.Context, tx *sql.Tx, note Notification) error {
	rid := contextutil.GetRequestID(ctx)

	event := events.AttendanceRecordedEvent{
		EventType:  "attendance_recorded",
		RequestID:  rid,
		RecordID:   note.RecordID.String(),
		WorkerID:   note.WorkerID.String(),
		ProjectID:  note.ProjectID.String(),
		Status:     note.Status,
		Source:     note.Source,
		OccurredAt: note.OccurredAt,
		Text:       ComposeText(note),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance_record",
		AggregateID:   note.RecordID.String(),
		EventType:     event.EventType,
		Topic:         n.topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}

	repo := n.outbox
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.Create(ctx, outboxEvent); err != nil {
		n.logger.Error("notification outbox persist failed",
			zap.String("record_id", note.RecordID.String()),
			zap.String("worker_id", note.WorkerID.String()),
			zap.Error(err),
		)
		return err
	}

	n.logger.Debug("notification queued",
		zap.String("record_id", note.RecordID.String()),
		zap.String("worker_id", note.WorkerID.String()),
		zap.String("status", note.Status),
	)
	return nil
}

// ComposeText renders the worker-facing message in the worker's own
// timezone. Unknown timezone names fall back to UTC, the same degradation
// the rest of the service applies.
func ComposeText(n Notification) string {
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil || n.Timezone == "" {
		loc = time.UTC
	}
	local := n.OccurredAt.In(loc)

	verb := "Checked in"
	if n.Status == "checkout" {
		verb = "Checked out"
	}
	return fmt.Sprintf("%s at %s on %s", verb,
		local.Format("15:04"),
		local.Format("Mon, 02 Jan 2006"),
	)
}
