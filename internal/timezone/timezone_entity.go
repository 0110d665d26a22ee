package timezone

import (
	"time"

	"github.com/google/uuid"
)

// WorkerTimezone stores one worker's IANA timezone preference. Workers
// without a row fall back to UTC everywhere.
type WorkerTimezone struct {
	WorkerID  uuid.UUID `gorm:"column:worker_id;type:uuid;primaryKey"`
	Timezone  string    `gorm:"column:timezone;type:varchar(64);not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (WorkerTimezone) TableName() string {
	return "worker_timezones"
}
