package timezone

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTimezone is assumed whenever a worker's preference is missing,
// empty, or cannot be loaded.
const DefaultTimezone = "UTC"

// Resolver answers "which timezone does this worker live in". It never
// fails: any gap degrades to UTC so that a missing preference can never
// stall attendance processing.
type Resolver interface {
	Resolve(ctx context.Context, workerID uuid.UUID) string
}

type resolver struct {
	repo   Repository
	logger *zap.Logger
}

func NewResolver(repo Repository) Resolver {
	return &resolver{
		repo:   repo,
		logger: zap.L().Named("timezone.resolver"),
	}
}

func (r *resolver) Resolve(ctx context.Context, workerID uuid.UUID) string {
	wt, err := r.repo.Get(ctx, workerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("timezone lookup failed, assuming UTC",
				zap.String("worker_id", workerID.String()),
				zap.Error(err),
			)
		}
		return DefaultTimezone
	}
	if wt.Timezone == "" {
		return DefaultTimezone
	}
	return wt.Timezone
}
