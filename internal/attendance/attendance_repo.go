package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/scope"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *Record) error
	FirstInWindow(ctx context.Context, workerID, projectID uuid.UUID, status string, from, to time.Time, after *time.Time) (*Record, error)
	LatestInWindow(ctx context.Context, workerID, projectID uuid.UUID, status string, from, to time.Time) (*Record, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]Record, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

// Create inserts through database/sql so the record can share a transaction
// with the outbox write.
func (r *repository) Create(ctx context.Context, rec *Record) error {
	const query = `
        INSERT INTO attendance_records (
            id, worker_id, project_id, status, occurred_at, source, note
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		rec.ID, rec.WorkerID, rec.ProjectID,
		rec.Status, rec.OccurredAt, rec.Source, rec.Note,
	)
	return err
}

// FirstInWindow returns the oldest record of the given status inside the
// inclusive [from, to] range, or gorm.ErrRecordNotFound. A non-nil after
// additionally requires occurred_at to be strictly later than it; checkout
// lookups use this to enforce ordering against their check-in anchor in the
// query itself.
func (r *repository) FirstInWindow(ctx context.Context, workerID, projectID uuid.UUID, status string, from, to time.Time, after *time.Time) (*Record, error) {
	q := r.db.WithContext(ctx).
		Scopes(
			scope.Worker(workerID),
			scope.Project(projectID),
			scope.OccurredBetween(from, to),
		).
		Where("status = ?", status)
	if after != nil {
		q = q.Where("occurred_at > ?", *after)
	}

	var rec Record
	if err := q.Order("occurred_at ASC").First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// LatestInWindow returns the newest record of the given status inside the
// inclusive [from, to] range, or gorm.ErrRecordNotFound.
func (r *repository) LatestInWindow(ctx context.Context, workerID, projectID uuid.UUID, status string, from, to time.Time) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Scopes(
			scope.Worker(workerID),
			scope.Project(projectID),
			scope.OccurredBetween(from, to),
		).
		Where("status = ?", status).
		Order("occurred_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListByWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Scopes(
			scope.Worker(workerID),
			scope.OccurredBetween(from, to),
		).
		Order("occurred_at ASC").
		Find(&rows).Error
	return rows, err
}
