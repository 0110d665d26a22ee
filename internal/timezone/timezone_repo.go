package timezone

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timezone_repo.go -destination=mock/timezone_repo_mock.go -package=mock
type Repository interface {
	Get(ctx context.Context, workerID uuid.UUID) (*WorkerTimezone, error)
	Upsert(ctx context.Context, wt *WorkerTimezone) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, workerID uuid.UUID) (*WorkerTimezone, error) {
	var wt WorkerTimezone
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		First(&wt).Error
	if err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *repository) Upsert(ctx context.Context, wt *WorkerTimezone) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO worker_timezones (worker_id, timezone, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (worker_id) DO UPDATE
		SET timezone = EXCLUDED.timezone, updated_at = now()
	`, wt.WorkerID, wt.Timezone).Error
}
