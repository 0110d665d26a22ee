package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/kamorahul/workforce-ai-sub001/internal/messaging/kafka"
)

func TestOutboxRepository_Create_WithTx(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := kafka.OutboxEvent{
		ID:            "7f9c24e8-3b1a-4ef5-9db4-9e5c08a7f001",
		RequestID:     "req-123",
		AggregateType: "attendance_record",
		AggregateID:   "11111111-2222-3333-4444-555555555555",
		EventType:     "attendance_recorded",
		Topic:         "workforce.attendance.recorded.v1",
		Payload:       []byte(`{"worker_id":"w1"}`),
		Status:        kafka.OutboxStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(
			event.ID, event.RequestID, event.AggregateType,
			event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.WithTx(tx).Create(ctx, event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending_CarriesRequestID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	next := time.Date(2024, 7, 27, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id",
		"event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
	}).
		AddRow("evt-1", "req-123", "attendance_record", "agg-1",
			"attendance_recorded", "topic.v1", []byte(`{}`), kafka.OutboxStatusPending, 0, next).
		AddRow("evt-2", "", "attendance_record", "agg-2",
			"attendance_recorded", "topic.v1", []byte(`{}`), kafka.OutboxStatusFailed, 3, next)

	mock.ExpectQuery("SELECT").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(ctx, 50)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "req-123", events[0].RequestID)
	assert.Empty(t, events[1].RequestID)
	assert.Equal(t, 3, events[1].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("evt-1", kafka.OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.MarkFailed(ctx, "evt-1", "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkDead(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("evt-1", kafka.OutboxStatusDead, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.MarkDead(ctx, "evt-1", "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      "evt-1",
		Topic:   "topic.v1",
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	}

	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	dead := valid
	dead.Status = kafka.OutboxStatusDead
	assert.NoError(t, kafka.ValidateOutboxEvent(dead))

	bogus := valid
	bogus.Status = "parked"
	assert.Error(t, kafka.ValidateOutboxEvent(bogus))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(missingTopic))
}
