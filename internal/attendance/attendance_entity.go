package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusCheckIn  = "checkin"
	StatusCheckOut = "checkout"

	SourceAuto   = "AUTO"
	SourceManual = "MANUAL"
)

// Tolerance is the duplicate-detection radius: two records of the same status
// for the same (worker, project) within Tolerance of each other describe the
// same real-world action and must not coexist.
const Tolerance = 15 * time.Minute

// ToleranceWindow returns the inclusive [from, to] range around center that
// duplicate checks query. A record exactly Tolerance away still counts as a
// duplicate; one second further does not.
func ToleranceWindow(center time.Time) (time.Time, time.Time) {
	return center.Add(-Tolerance), center.Add(Tolerance)
}

// Record is one canonical attendance action. Rows are insert-only: neither
// the reconciliation engine nor the manual endpoints ever update or delete.
type Record struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID   uuid.UUID `gorm:"column:worker_id;type:uuid;not null;index:idx_attendance_records_pair"`
	ProjectID  uuid.UUID `gorm:"column:project_id;type:uuid;not null;index:idx_attendance_records_pair"`
	Status     string    `gorm:"column:status;type:varchar(10);not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;type:timestamptz;not null;index"`
	Source     string    `gorm:"column:source;type:varchar(10);not null;default:MANUAL"`
	Note       *string   `gorm:"column:note;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}
