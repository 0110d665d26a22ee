package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/notify"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)
	ListDay(ctx context.Context, workerID, date string) ([]RecordResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver timezone.Resolver
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(db *sql.DB, repo Repository, resolver timezone.Resolver) Service {
	return NewServiceWithNotifier(db, repo, resolver, nil)
}

// NewServiceWithNotifier additionally queues a worker notification in the
// same transaction as every manual record, mirroring what the nightly
// reconciler does for automatic ones.
func NewServiceWithNotifier(db *sql.DB, repo Repository, resolver timezone.Resolver, notifier notify.Notifier) Service {
	if notifier == nil {
		notifier = notify.NewNopNotifier()
	}
	return &service{db: db, repo: repo, resolver: resolver, notifier: notifier, now: time.Now}
}

// CheckIn records a manual check-in. The request is rejected when another
// check-in for the pair already lies within the duplicate window around the
// requested instant, the same rule the nightly reconciler applies.
func (s *service) CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error) {
	workerID, projectID, err := parsePair(req.WorkerID, req.ProjectID)
	if err != nil {
		return RecordResponse{}, err
	}

	occurredAt := s.now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	from, to := ToleranceWindow(occurredAt)
	existing, err := s.repo.FirstInWindow(ctx, workerID, projectID, StatusCheckIn, from, to, nil)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return RecordResponse{}, err
	}
	if existing != nil {
		return RecordResponse{}, apperror.New(apperror.CodeConflict, "a check-in already exists within 15 minutes of the requested time", 409)
	}

	rec := &Record{
		ID:         uuid.New(),
		WorkerID:   workerID,
		ProjectID:  projectID,
		Status:     StatusCheckIn,
		OccurredAt: occurredAt,
		Source:     SourceManual,
		Note:       req.Note,
	}
	if err := s.insert(ctx, rec, s.resolver.Resolve(ctx, workerID)); err != nil {
		return RecordResponse{}, err
	}
	return mapToResponse(*rec), nil
}

// CheckOut records a manual check-out. It must be anchored by a check-in
// earlier in the worker's local day and must fall strictly after it; a
// check-out already inside the duplicate window is rejected.
func (s *service) CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error) {
	workerID, projectID, err := parsePair(req.WorkerID, req.ProjectID)
	if err != nil {
		return RecordResponse{}, err
	}

	occurredAt := s.now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	tzName := s.resolver.Resolve(ctx, workerID)
	window := timezone.WindowForDate(occurredAt, tzName)

	anchor, err := s.repo.LatestInWindow(ctx, workerID, projectID, StatusCheckIn, window.Start, occurredAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, apperror.New(apperror.CodeInvalidState, "no check-in found earlier in the worker's local day", 409)
		}
		return RecordResponse{}, err
	}
	if !anchor.OccurredAt.Before(occurredAt) {
		return RecordResponse{}, apperror.New(apperror.CodeInvalidState, "check-out must happen after the day's check-in", 409)
	}

	from, to := ToleranceWindow(occurredAt)
	existing, err := s.repo.FirstInWindow(ctx, workerID, projectID, StatusCheckOut, from, to, nil)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return RecordResponse{}, err
	}
	if existing != nil {
		return RecordResponse{}, apperror.New(apperror.CodeConflict, "a check-out already exists within 15 minutes of the requested time", 409)
	}

	rec := &Record{
		ID:         uuid.New(),
		WorkerID:   workerID,
		ProjectID:  projectID,
		Status:     StatusCheckOut,
		OccurredAt: occurredAt,
		Source:     SourceManual,
		Note:       req.Note,
	}
	if err := s.insert(ctx, rec, tzName); err != nil {
		return RecordResponse{}, err
	}
	return mapToResponse(*rec), nil
}

// ListDay returns the worker's records for one local calendar day. An empty
// date means the current day in the worker's timezone.
func (s *service) ListDay(ctx context.Context, workerID, date string) ([]RecordResponse, error) {
	wid, err := uuid.Parse(workerID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "worker_id must be a valid UUID", 400)
	}

	tzName := s.resolver.Resolve(ctx, wid)
	var window timezone.DayWindow
	if date == "" {
		window = timezone.WindowForDate(s.now(), tzName)
	} else {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", 400)
		}
		window = timezone.WindowForCalendarDate(day.Year(), day.Month(), day.Day(), tzName)
	}

	rows, err := s.repo.ListByWorker(ctx, wid, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) insert(ctx context.Context, rec *Record, tzName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, rec); err != nil {
		return err
	}
	if err := s.notifier.RecordCreated(ctx, tx, notify.Notification{
		RecordID:   rec.ID,
		WorkerID:   rec.WorkerID,
		ProjectID:  rec.ProjectID,
		Status:     rec.Status,
		Source:     rec.Source,
		OccurredAt: rec.OccurredAt,
		Timezone:   tzName,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func parsePair(workerID, projectID string) (uuid.UUID, uuid.UUID, error) {
	wid, err := uuid.Parse(workerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.New(apperror.CodeInvalidInput, "worker_id must be a valid UUID", 400)
	}
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.New(apperror.CodeInvalidInput, "project_id must be a valid UUID", 400)
	}
	return wid, pid, nil
}

func mapToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:         r.ID.String(),
		WorkerID:   r.WorkerID.String(),
		ProjectID:  r.ProjectID.String(),
		Status:     r.Status,
		OccurredAt: r.OccurredAt.Format(time.RFC3339),
		Source:     r.Source,
		Note:       r.Note,
	}
}
