package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/attendance"
	"github.com/kamorahul/workforce-ai-sub001/internal/notify"
	"github.com/kamorahul/workforce-ai-sub001/internal/presence"
	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

// Engine derives canonical attendance records from raw presence events. Once
// per day it finds every (worker, project) pair that produced an ENTER event,
// picks the day's check-in and check-out instants per the worker's own
// calendar day, and inserts whatever is not already represented within the
// tolerance window. Records are insert-only: the engine never updates or
// deletes, so rerunning a date is safe.
type Engine struct {
	db       *sql.DB
	events   presence.Repository
	records  attendance.Repository
	resolver timezone.Resolver
	notifier notify.Notifier
	scanTZ   string
	logger   *zap.Logger
}

// NewEngine wires the engine. scanTZ names the timezone whose midnight
// bounds the coarse discovery scan; empty means the server's local zone.
// The scan boundary only bounds discovery; per-worker day windows are
// always computed in each worker's own timezone.
func NewEngine(
	db *sql.DB,
	events presence.Repository,
	records attendance.Repository,
	resolver timezone.Resolver,
	notifier notify.Notifier,
	scanTZ string,
) *Engine {
	if notifier == nil {
		notifier = notify.NewNopNotifier()
	}
	if scanTZ == "" {
		scanTZ = "Local"
	}
	return &Engine{
		db:       db,
		events:   events,
		records:  records,
		resolver: resolver,
		notifier: notifier,
		scanTZ:   scanTZ,
		logger:   zap.L().Named("reconcile.engine"),
	}
}

// RunDaily reconciles attendance for the calendar day that ref falls on.
// The check-in pass runs to completion before the check-out pass starts,
// because check-outs anchor on check-ins written moments earlier. Each pair
// is isolated: its outcome lands in the report and processing continues.
// The only error this returns is a discovery failure, since with no
// candidate set there is no per-pair work to isolate.
func (e *Engine) RunDaily(ctx context.Context, ref time.Time) (Report, error) {
	boundary := timezone.WindowForDate(ref, e.scanTZ)
	report := Report{ReferenceDate: ref, Boundary: boundary}

	pairs, err := e.events.DistinctEnterPairs(ctx, boundary.Start, boundary.End)
	if err != nil {
		return report, fmt.Errorf("discover candidate pairs: %w", err)
	}
	report.Candidates = len(pairs)

	if len(pairs) == 0 {
		e.logger.Info("no candidate pairs, nothing to reconcile",
			zap.Time("reference", ref),
			zap.Time("boundary_start", boundary.Start),
			zap.Time("boundary_end", boundary.End),
		)
		return report, nil
	}

	e.logger.Info("reconciliation run started",
		zap.Time("reference", ref),
		zap.Time("boundary_start", boundary.Start),
		zap.Time("boundary_end", boundary.End),
		zap.Int("candidates", len(pairs)),
	)

	for _, pair := range pairs {
		report.CheckIns = append(report.CheckIns, e.reconcileCheckIn(ctx, ref, pair))
	}
	for _, pair := range pairs {
		report.CheckOuts = append(report.CheckOuts, e.reconcileCheckOut(ctx, ref, pair))
	}

	in, out := report.CheckInSummary(), report.CheckOutSummary()
	e.logger.Info("reconciliation run finished",
		zap.Time("reference", ref),
		zap.Int("candidates", report.Candidates),
		zap.Int("checkins_recorded", in.Recorded),
		zap.Int("checkins_covered", in.AlreadyCovered),
		zap.Int("checkins_skipped", in.Skipped),
		zap.Int("checkins_failed", in.Failed),
		zap.Int("checkouts_recorded", out.Recorded),
		zap.Int("checkouts_covered", out.AlreadyCovered),
		zap.Int("checkouts_skipped", out.Skipped),
		zap.Int("checkouts_failed", out.Failed),
	)
	return report, nil
}

// reconcileCheckIn finds the pair's earliest ENTER inside the worker-local
// day and writes a check-in for it, unless one already exists within the
// tolerance window.
func (e *Engine) reconcileCheckIn(ctx context.Context, ref time.Time, pair presence.Pair) PairOutcome {
	out := PairOutcome{
		Phase:     attendance.StatusCheckIn,
		WorkerID:  pair.WorkerID,
		ProjectID: pair.ProjectID,
	}

	tzName := e.resolver.Resolve(ctx, pair.WorkerID)
	window := timezone.WindowForDate(ref, tzName)

	enter, err := e.events.EarliestEvent(ctx, pair.WorkerID, pair.ProjectID, presence.ActionEnter, window.Start, window.End)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Possible because discovery scanned the coarse server-day
			// boundary, which can be wider than this worker's local day.
			e.logger.Warn("no ENTER event inside local day window",
				zap.String("worker_id", pair.WorkerID.String()),
				zap.String("project_id", pair.ProjectID.String()),
				zap.String("timezone", tzName),
				zap.Time("window_start", window.Start),
				zap.Time("window_end", window.End),
			)
			return out.skipped("no ENTER event inside local day window")
		}
		return e.fail(out, err)
	}

	from, to := attendance.ToleranceWindow(enter.OccurredAt)
	existing, err := e.records.FirstInWindow(ctx, pair.WorkerID, pair.ProjectID, attendance.StatusCheckIn, from, to, nil)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return e.fail(out, err)
	}
	if existing != nil {
		e.logger.Debug("check-in already covered",
			zap.String("worker_id", pair.WorkerID.String()),
			zap.String("project_id", pair.ProjectID.String()),
			zap.Time("existing_at", existing.OccurredAt),
			zap.Time("enter_at", enter.OccurredAt),
		)
		return out.covered()
	}

	rec := &attendance.Record{
		ID:         uuid.New(),
		WorkerID:   pair.WorkerID,
		ProjectID:  pair.ProjectID,
		Status:     attendance.StatusCheckIn,
		OccurredAt: enter.OccurredAt,
		Source:     attendance.SourceAuto,
	}
	if err := e.insert(ctx, rec, tzName); err != nil {
		return e.fail(out, err)
	}

	e.logger.Info("check-in recorded",
		zap.String("worker_id", pair.WorkerID.String()),
		zap.String("project_id", pair.ProjectID.String()),
		zap.Time("occurred_at", rec.OccurredAt),
	)
	return out.recorded()
}

// reconcileCheckOut anchors on the day's latest check-in record, then writes
// a check-out for the latest EXIT event after it, unless one already exists
// within the tolerance window. Without an anchor there is no check-out: a
// worker must have entered to be checked out.
func (e *Engine) reconcileCheckOut(ctx context.Context, ref time.Time, pair presence.Pair) PairOutcome {
	out := PairOutcome{
		Phase:     attendance.StatusCheckOut,
		WorkerID:  pair.WorkerID,
		ProjectID: pair.ProjectID,
	}

	tzName := e.resolver.Resolve(ctx, pair.WorkerID)
	window := timezone.WindowForDate(ref, tzName)

	anchor, err := e.records.LatestInWindow(ctx, pair.WorkerID, pair.ProjectID, attendance.StatusCheckIn, window.Start, window.End)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Info("no check-in to anchor a check-out",
				zap.String("worker_id", pair.WorkerID.String()),
				zap.String("project_id", pair.ProjectID.String()),
			)
			return out.skipped("no check-in to anchor a check-out")
		}
		return e.fail(out, err)
	}

	exit, err := e.events.LatestEvent(ctx, pair.WorkerID, pair.ProjectID, presence.ActionExit, anchor.OccurredAt, window.End)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Info("no EXIT event after the check-in",
				zap.String("worker_id", pair.WorkerID.String()),
				zap.String("project_id", pair.ProjectID.String()),
				zap.Time("checkin_at", anchor.OccurredAt),
			)
			return out.skipped("no EXIT event after the check-in")
		}
		return e.fail(out, err)
	}
	// The range above is inclusive of the anchor instant; a check-out must
	// fall strictly after its check-in no matter how the windows overlap.
	if !exit.OccurredAt.After(anchor.OccurredAt) {
		return out.skipped("latest EXIT is not after the check-in")
	}

	from, to := attendance.ToleranceWindow(exit.OccurredAt)
	existing, err := e.records.FirstInWindow(ctx, pair.WorkerID, pair.ProjectID, attendance.StatusCheckOut, from, to, &anchor.OccurredAt)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return e.fail(out, err)
	}
	if existing != nil {
		e.logger.Debug("check-out already covered",
			zap.String("worker_id", pair.WorkerID.String()),
			zap.String("project_id", pair.ProjectID.String()),
			zap.Time("existing_at", existing.OccurredAt),
			zap.Time("exit_at", exit.OccurredAt),
		)
		return out.covered()
	}

	rec := &attendance.Record{
		ID:         uuid.New(),
		WorkerID:   pair.WorkerID,
		ProjectID:  pair.ProjectID,
		Status:     attendance.StatusCheckOut,
		OccurredAt: exit.OccurredAt,
		Source:     attendance.SourceAuto,
	}
	if err := e.insert(ctx, rec, tzName); err != nil {
		return e.fail(out, err)
	}

	e.logger.Info("check-out recorded",
		zap.String("worker_id", pair.WorkerID.String()),
		zap.String("project_id", pair.ProjectID.String()),
		zap.Time("occurred_at", rec.OccurredAt),
	)
	return out.recorded()
}

// insert writes the record and queues its notification in one transaction.
func (e *Engine) insert(ctx context.Context, rec *attendance.Record, tzName string) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.records.WithTx(tx).Create(ctx, rec); err != nil {
		return err
	}

	note := notify.Notification{
		RecordID:   rec.ID,
		WorkerID:   rec.WorkerID,
		ProjectID:  rec.ProjectID,
		Status:     rec.Status,
		Source:     rec.Source,
		OccurredAt: rec.OccurredAt,
		Timezone:   tzName,
	}
	if err := e.notifier.RecordCreated(ctx, tx, note); err != nil {
		return err
	}

	return tx.Commit()
}

func (e *Engine) fail(out PairOutcome, err error) PairOutcome {
	e.logger.Error("pair reconciliation failed",
		zap.String("phase", out.Phase),
		zap.String("worker_id", out.WorkerID.String()),
		zap.String("project_id", out.ProjectID.String()),
		zap.Error(err),
	)
	return out.failed(err)
}
