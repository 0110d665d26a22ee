package scheduler

import (
	"time"

	"github.com/google/uuid"
)

const JobDailyReconciliation = "daily_reconciliation"

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// JobRun tags one execution of a named job for one calendar date. The unique
// (job_name, run_date) key is the cross-process backstop against two
// instances reconciling the same date at once; reruns of a finished date stay
// legal because a completed or failed row can be reclaimed.
type JobRun struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	JobName    string     `gorm:"column:job_name;type:varchar(64);not null;uniqueIndex:uq_job_runs_name_date"`
	RunDate    time.Time  `gorm:"column:run_date;type:date;not null;uniqueIndex:uq_job_runs_name_date"`
	Status     string     `gorm:"column:status;type:varchar(12);not null"`
	LeaseUntil time.Time  `gorm:"column:lease_until;type:timestamptz;not null"`
	Candidates int        `gorm:"column:candidates;not null;default:0"`
	Recorded   int        `gorm:"column:recorded;not null;default:0"`
	Failed     int        `gorm:"column:failed;not null;default:0"`
	LastError  *string    `gorm:"column:last_error;type:text"`
	StartedAt  time.Time  `gorm:"column:started_at;type:timestamptz;not null"`
	FinishedAt *time.Time `gorm:"column:finished_at;type:timestamptz"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (JobRun) TableName() string {
	return "job_runs"
}
