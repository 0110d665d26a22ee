package presence

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionEnter = "ENTER"
	ActionExit  = "EXIT"
)

// Event is one raw presence signal (door or geofence) for a worker on a
// project. The ingestion pipeline owns writes; this service only ever reads,
// so the row set is treated as append-only and immutable.
type Event struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID   uuid.UUID `gorm:"column:worker_id;type:uuid;not null;index:idx_presence_events_pair_action"`
	ProjectID  uuid.UUID `gorm:"column:project_id;type:uuid;not null;index:idx_presence_events_pair_action"`
	Action     string    `gorm:"column:action;type:varchar(10);not null;index:idx_presence_events_pair_action"`
	OccurredAt time.Time `gorm:"column:occurred_at;type:timestamptz;not null;index"`
	Source     string    `gorm:"column:source;type:varchar(30);not null;default:DOOR"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Event) TableName() string {
	return "presence_events"
}

// Pair is a (worker, project) combination eligible for reconciliation because
// it produced at least one ENTER event on the reference date.
type Pair struct {
	WorkerID  uuid.UUID `gorm:"column:worker_id"`
	ProjectID uuid.UUID `gorm:"column:project_id"`
}
