package timezone

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
)

type fakeRepo struct {
	getFn    func(ctx context.Context, workerID uuid.UUID) (*WorkerTimezone, error)
	upsertFn func(ctx context.Context, wt *WorkerTimezone) error
}

func (f *fakeRepo) Get(ctx context.Context, workerID uuid.UUID) (*WorkerTimezone, error) {
	return f.getFn(ctx, workerID)
}
func (f *fakeRepo) Upsert(ctx context.Context, wt *WorkerTimezone) error {
	return f.upsertFn(ctx, wt)
}

func TestTimezoneService_Set(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		var saved WorkerTimezone
		repo := &fakeRepo{
			upsertFn: func(ctx context.Context, wt *WorkerTimezone) error {
				saved = *wt
				return nil
			},
		}
		svc := NewService(repo)

		resp, err := svc.Set(ctx, workerID.String(), SetTimezoneRequest{Timezone: "Asia/Jakarta"})

		assert.NoError(t, err)
		assert.Equal(t, "Asia/Jakarta", resp.Timezone)
		assert.Equal(t, workerID, saved.WorkerID)
		assert.Equal(t, "Asia/Jakarta", saved.Timezone)
	})

	t.Run("unknown IANA name", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		_, err := svc.Set(ctx, workerID.String(), SetTimezoneRequest{Timezone: "Mars/Olympus_Mons"})

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, apperror.CodeInvalidInput, httpErr.Code)
	})

	t.Run("empty timezone", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		_, err := svc.Set(ctx, workerID.String(), SetTimezoneRequest{})

		assert.Error(t, err)
	})

	t.Run("invalid worker id", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		_, err := svc.Set(ctx, "nope", SetTimezoneRequest{Timezone: "UTC"})

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, apperror.CodeInvalidInput, httpErr.Code)
	})
}

func TestTimezoneService_Get(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		updated := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
		repo := &fakeRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*WorkerTimezone, error) {
				assert.Equal(t, workerID, id)
				return &WorkerTimezone{WorkerID: workerID, Timezone: "Europe/Berlin", UpdatedAt: updated}, nil
			},
		}
		svc := NewService(repo)

		resp, err := svc.Get(ctx, workerID.String())

		assert.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", resp.Timezone)
		assert.Equal(t, updated.Format(time.RFC3339), resp.UpdatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*WorkerTimezone, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(repo)

		_, err := svc.Get(ctx, workerID.String())

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
	})
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()

	t.Run("returns the stored preference", func(t *testing.T) {
		repo := &fakeRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*WorkerTimezone, error) {
				return &WorkerTimezone{WorkerID: id, Timezone: "Asia/Jakarta"}, nil
			},
		}

		assert.Equal(t, "Asia/Jakarta", NewResolver(repo).Resolve(ctx, workerID))
	})

	t.Run("no preference degrades to UTC", func(t *testing.T) {
		repo := &fakeRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*WorkerTimezone, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		assert.Equal(t, DefaultTimezone, NewResolver(repo).Resolve(ctx, workerID))
	})

	t.Run("lookup failure degrades to UTC", func(t *testing.T) {
		repo := &fakeRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*WorkerTimezone, error) {
				return nil, errors.New("connection reset")
			},
		}

		assert.Equal(t, DefaultTimezone, NewResolver(repo).Resolve(ctx, workerID))
	})

	t.Run("blank stored value degrades to UTC", func(t *testing.T) {
		repo := &fakeRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*WorkerTimezone, error) {
				return &WorkerTimezone{WorkerID: id, Timezone: ""}, nil
			},
		}

		assert.Equal(t, DefaultTimezone, NewResolver(repo).Resolve(ctx, workerID))
	})
}
