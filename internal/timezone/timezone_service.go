package timezone

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
)

//go:generate mockgen -source=timezone_service.go -destination=mock/timezone_service_mock.go -package=mock
type Service interface {
	Set(ctx context.Context, workerID string, req SetTimezoneRequest) (TimezoneResponse, error)
	Get(ctx context.Context, workerID string) (TimezoneResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Set stores a worker's timezone preference after validating it against the
// IANA database. time.LoadLocation accepts the empty string as UTC, so the
// explicit empty check comes first.
func (s *service) Set(ctx context.Context, workerID string, req SetTimezoneRequest) (TimezoneResponse, error) {
	wid, err := uuid.Parse(workerID)
	if err != nil {
		return TimezoneResponse{}, apperror.New(apperror.CodeInvalidInput, "worker id must be a valid UUID", 400)
	}
	if req.Timezone == "" {
		return TimezoneResponse{}, apperror.RequiredField("timezone")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return TimezoneResponse{}, apperror.New(apperror.CodeInvalidInput, "timezone must be a valid IANA name such as America/New_York", 400)
	}

	wt := &WorkerTimezone{WorkerID: wid, Timezone: req.Timezone}
	if err := s.repo.Upsert(ctx, wt); err != nil {
		return TimezoneResponse{}, err
	}
	return TimezoneResponse{WorkerID: wid.String(), Timezone: req.Timezone}, nil
}

func (s *service) Get(ctx context.Context, workerID string) (TimezoneResponse, error) {
	wid, err := uuid.Parse(workerID)
	if err != nil {
		return TimezoneResponse{}, apperror.New(apperror.CodeInvalidInput, "worker id must be a valid UUID", 400)
	}

	wt, err := s.repo.Get(ctx, wid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimezoneResponse{}, apperror.ErrNotFound
		}
		return TimezoneResponse{}, err
	}
	return TimezoneResponse{
		WorkerID:  wt.WorkerID.String(),
		Timezone:  wt.Timezone,
		UpdatedAt: wt.UpdatedAt.Format(time.RFC3339),
	}, nil
}
