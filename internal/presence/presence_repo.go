package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/scope"
)

// Repository reads raw presence events. There are deliberately no write
// methods: the event store belongs to the ingestion pipeline.
type Repository interface {
	DistinctEnterPairs(ctx context.Context, from, to time.Time) ([]Pair, error)
	EarliestEvent(ctx context.Context, workerID, projectID uuid.UUID, action string, from, to time.Time) (*Event, error)
	LatestEvent(ctx context.Context, workerID, projectID uuid.UUID, action string, from, to time.Time) (*Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// DistinctEnterPairs lists every (worker, project) combination with at least
// one ENTER event inside [from, to]. Both bounds are inclusive.
func (r *repository) DistinctEnterPairs(ctx context.Context, from, to time.Time) ([]Pair, error) {
	var pairs []Pair
	err := r.db.WithContext(ctx).
		Model(&Event{}).
		Distinct("worker_id", "project_id").
		Where("action = ?", ActionEnter).
		Scopes(scope.OccurredBetween(from, to)).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// EarliestEvent returns the oldest event matching the pair and action inside
// [from, to], or gorm.ErrRecordNotFound when the range holds none.
func (r *repository) EarliestEvent(ctx context.Context, workerID, projectID uuid.UUID, action string, from, to time.Time) (*Event, error) {
	return r.firstByOrder(ctx, workerID, projectID, action, from, to, "occurred_at ASC")
}

// LatestEvent returns the newest event matching the pair and action inside
// [from, to], or gorm.ErrRecordNotFound when the range holds none.
func (r *repository) LatestEvent(ctx context.Context, workerID, projectID uuid.UUID, action string, from, to time.Time) (*Event, error) {
	return r.firstByOrder(ctx, workerID, projectID, action, from, to, "occurred_at DESC")
}

func (r *repository) firstByOrder(ctx context.Context, workerID, projectID uuid.UUID, action string, from, to time.Time, order string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Scopes(
			scope.Worker(workerID),
			scope.Project(projectID),
			scope.OccurredBetween(from, to),
		).
		Where("action = ?", action).
		Order(order).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}
