package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kamorahul/workforce-ai-sub001/internal/bootstrap"
	"github.com/kamorahul/workforce-ai-sub001/internal/reconcile"
	schedulererrors "github.com/kamorahul/workforce-ai-sub001/internal/scheduler/errors"
)

// defaultLease bounds how long one instance may own a run before a crashed
// process stops blocking reruns. It doubles as the Redis lock TTL.
const defaultLease = 15 * time.Minute

// Runner executes one reconciliation pass for a reference instant. The
// reconcile engine satisfies it.
type Runner interface {
	RunDaily(ctx context.Context, ref time.Time) (reconcile.Report, error)
}

// Scheduler owns when reconciliation runs and that it runs once. The engine
// itself is idempotent either way; the scheduler's locks only keep concurrent
// instances from racing the check-then-insert window. Three layers, cheapest
// first: a singleflight group collapses concurrent triggers inside one
// process, a Redis SETNX lock fences other processes, and the job_runs row's
// unique key plus lease is the store-level backstop that also survives a
// Redis flush.
type Scheduler struct {
	runner   Runner
	runs     RunStore
	rdb      *redis.Client
	audit    bootstrap.AuditLogger
	sf       *singleflight.Group
	runAt    string
	loc      *time.Location
	lease    time.Duration
	instance string
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler wires the scheduler. runAt is the local wall-clock HH:MM the
// daily loop fires at; tzName picks the wall clock (empty means the server's
// local zone) and must match the engine's scan zone so the loop and the
// coarse discovery boundary agree on what "yesterday" means.
func NewScheduler(
	runner Runner,
	runs RunStore,
	rdb *redis.Client,
	audit bootstrap.AuditLogger,
	runAt, tzName string,
) *Scheduler {
	loc := time.Local
	if tzName != "" {
		if l, err := time.LoadLocation(tzName); err == nil {
			loc = l
		}
	}
	if runAt == "" {
		runAt = "01:30"
	}
	return &Scheduler{
		runner:   runner,
		runs:     runs,
		rdb:      rdb,
		audit:    audit,
		sf:       &singleflight.Group{},
		runAt:    runAt,
		loc:      loc,
		lease:    defaultLease,
		instance: uuid.NewString(),
		now:      time.Now,
		logger:   zap.L().Named("scheduler"),
	}
}

// Start runs the daily loop until ctx is cancelled: sleep until the next
// runAt wall-clock tick, reconcile the previous calendar date, repeat. Run
// failures are logged and the loop keeps going; the next tick retries the
// next date and a missed date can always be triggered by hand.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("daily reconciliation scheduler started",
		zap.String("run_at", s.runAt),
		zap.String("timezone", s.loc.String()),
	)

	for {
		next := nextRunTime(s.now().In(s.loc), s.runAt)
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("daily reconciliation scheduler stopped")
			return
		case <-timer.C:
		}

		ref := s.previousDayRef(s.now())
		if _, err := s.Trigger(ctx, ref); err != nil {
			if errors.Is(err, schedulererrors.ErrRunInProgress) {
				s.logger.Info("another instance owns this date, skipping",
					zap.String("date", s.dateKey(ref)),
				)
				continue
			}
			s.logger.Error("scheduled reconciliation failed",
				zap.String("date", s.dateKey(ref)),
				zap.Error(err),
			)
		}
	}
}

// Trigger reconciles the calendar date that ref falls on in the scheduler's
// zone. Shared by the daily loop and the operational HTTP endpoint, and safe
// to call repeatedly: concurrent triggers for one date collapse or answer
// ErrRunInProgress, and a finished date reruns as a no-op inside the engine.
func (s *Scheduler) Trigger(ctx context.Context, ref time.Time) (reconcile.Report, error) {
	key := s.dateKey(ref)
	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		return s.run(ctx, ref, key)
	})
	if shared {
		s.logger.Debug("trigger collapsed into in-flight run", zap.String("date", key))
	}

	report, _ := v.(reconcile.Report)
	return report, err
}

// RefForDate builds the reference instant for a literal calendar date. Noon
// rather than midnight: local midnight may not exist on a DST transition day,
// noon always does.
func (s *Scheduler) RefForDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, s.loc)
}

// RunsForDate lists the job-run rows recorded for a calendar date.
func (s *Scheduler) RunsForDate(ctx context.Context, year int, month time.Month, day int) ([]JobRun, error) {
	return s.runs.ListByDate(ctx, time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (s *Scheduler) run(ctx context.Context, ref time.Time, dateKey string) (reconcile.Report, error) {
	lockKey := "reconcile:lock:" + dateKey

	locked, err := s.rdb.SetNX(ctx, lockKey, s.instance, s.lease).Result()
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return reconcile.Report{}, schedulererrors.ErrRunInProgress
	}
	// If the delete is lost the TTL reaps the lock.
	defer s.rdb.Del(ctx, lockKey)

	run, err := s.runs.Claim(ctx, JobDailyReconciliation, s.runDate(ref), s.lease)
	if err != nil {
		return reconcile.Report{}, err
	}

	report, err := s.runner.RunDaily(ctx, ref)
	if err != nil {
		if failErr := s.runs.Fail(ctx, run.ID, err.Error()); failErr != nil {
			s.logger.Error("mark run failed errored",
				zap.String("run_id", run.ID.String()),
				zap.Error(failErr),
			)
		}
		return report, err
	}

	if compErr := s.runs.Complete(ctx, run.ID, report.Candidates, report.TotalRecorded(), report.TotalFailed()); compErr != nil {
		s.logger.Error("mark run completed errored",
			zap.String("run_id", run.ID.String()),
			zap.Error(compErr),
		)
	}

	if s.audit != nil {
		s.audit.Log(ctx, bootstrap.AuditLog{
			Action:  "RECONCILIATION_RUN",
			Message: "daily reconciliation finished",
			Meta: map[string]any{
				"date":       dateKey,
				"candidates": report.Candidates,
				"recorded":   report.TotalRecorded(),
				"failed":     report.TotalFailed(),
			},
		})
	}

	return report, nil
}

// dateKey is the calendar date of ref in the scheduler's zone. It keys both
// the singleflight group and the Redis lock.
func (s *Scheduler) dateKey(ref time.Time) string {
	return ref.In(s.loc).Format("2006-01-02")
}

// runDate is dateKey as the UTC-midnight instant the job_runs date column
// stores.
func (s *Scheduler) runDate(ref time.Time) time.Time {
	year, month, day := ref.In(s.loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// previousDayRef is the reference instant for "yesterday" relative to now.
func (s *Scheduler) previousDayRef(now time.Time) time.Time {
	year, month, day := now.In(s.loc).AddDate(0, 0, -1).Date()
	return s.RefForDate(year, month, day)
}

// nextRunTime is the next instant the wall clock in now's location reads
// runAt (HH:MM). Today's tick when still ahead, otherwise tomorrow's.
func nextRunTime(now time.Time, runAt string) time.Time {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		at, _ = time.Parse("15:04", "01:30")
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
