package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	schedulererrors "github.com/kamorahul/workforce-ai-sub001/internal/scheduler/errors"
)

//go:generate mockgen -source=job_run_repo.go -destination=mock/job_run_repo_mock.go -package=mock
type RunStore interface {
	Claim(ctx context.Context, jobName string, runDate time.Time, lease time.Duration) (*JobRun, error)
	Complete(ctx context.Context, id uuid.UUID, candidates, recorded, failed int) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
	ListByDate(ctx context.Context, runDate time.Time) ([]JobRun, error)
}

type runStore struct {
	db *gorm.DB
}

func NewRunStore(db *gorm.DB) RunStore {
	return &runStore{db: db}
}

// Claim marks the (job, date) row as running and owned by this process. A
// fresh date inserts; a date that already has a row is taken over only when
// its previous run finished or its lease expired. A live lease means another
// instance is mid-run, and Claim answers ErrRunInProgress.
func (r *runStore) Claim(ctx context.Context, jobName string, runDate time.Time, lease time.Duration) (*JobRun, error) {
	now := time.Now().UTC()
	run := &JobRun{
		ID:         uuid.New(),
		JobName:    jobName,
		RunDate:    runDate,
		Status:     RunStatusRunning,
		LeaseUntil: now.Add(lease),
		StartedAt:  now,
	}

	err := r.db.WithContext(ctx).Create(run).Error
	if err == nil {
		return run, nil
	}
	if !isUniqueRunViolation(err) {
		return nil, err
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE job_runs
		SET status = ?, lease_until = ?, started_at = ?, finished_at = NULL,
		    last_error = NULL, candidates = 0, recorded = 0, failed = 0, updated_at = now()
		WHERE job_name = ? AND run_date = ?
		  AND (status <> ? OR lease_until < now())
	`, RunStatusRunning, now.Add(lease), now, jobName, runDate, RunStatusRunning)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, schedulererrors.ErrRunInProgress
	}

	var claimed JobRun
	if err := r.db.WithContext(ctx).
		Where("job_name = ? AND run_date = ?", jobName, runDate).
		First(&claimed).Error; err != nil {
		return nil, err
	}
	return &claimed, nil
}

func (r *runStore) Complete(ctx context.Context, id uuid.UUID, candidates, recorded, failed int) error {
	return r.db.WithContext(ctx).
		Model(&JobRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      RunStatusCompleted,
			"candidates":  candidates,
			"recorded":    recorded,
			"failed":      failed,
			"last_error":  nil,
			"finished_at": time.Now().UTC(),
		}).Error
}

func (r *runStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&JobRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      RunStatusFailed,
			"last_error":  reason,
			"finished_at": time.Now().UTC(),
		}).Error
}

func (r *runStore) ListByDate(ctx context.Context, runDate time.Time) ([]JobRun, error) {
	var runs []JobRun
	err := r.db.WithContext(ctx).
		Where("run_date = ?", runDate).
		Order("job_name ASC").
		Find(&runs).Error
	return runs, err
}

func isUniqueRunViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_job_runs_name_date"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_job_runs_name_date")
}
