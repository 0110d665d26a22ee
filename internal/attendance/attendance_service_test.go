package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/kamorahul/workforce-ai-sub001/internal/attendance"
	attendanceMock "github.com/kamorahul/workforce-ai-sub001/internal/attendance/mock"
	"github.com/kamorahul/workforce-ai-sub001/internal/notify"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
)

type fakeResolver struct {
	tz string
}

func (f fakeResolver) Resolve(ctx context.Context, workerID uuid.UUID) string {
	return f.tz
}

type fakeNotifier struct {
	notes []notify.Notification
	txs   []*sql.Tx
	err   error
}

func (f *fakeNotifier) RecordCreated(ctx context.Context, tx *sql.Tx, n notify.Notification) error {
	f.notes = append(f.notes, n)
	f.txs = append(f.txs, tx)
	return f.err
}

type serviceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  attendance.Service
	repo     *attendanceMock.MockRepository
	notifier *fakeNotifier
}

func setupServiceTest(t *testing.T, tz string) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := attendanceMock.NewMockRepository(ctrl)
	notifier := &fakeNotifier{}

	svc := attendance.NewServiceWithNotifier(db, repo, fakeResolver{tz: tz}, notifier)

	return &serviceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		notifier: notifier,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, code, httpErr.Code)
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()
	projectID := uuid.New()
	at := time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t, "Asia/Jakarta")
		defer deps.db.Close()

		deps.repo.EXPECT().
			FirstInWindow(ctx, workerID, projectID, attendance.StatusCheckIn, at.Add(-attendance.Tolerance), at.Add(attendance.Tolerance), nil).
			Return(nil, gorm.ErrRecordNotFound)

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, rec *attendance.Record) error {
				assert.Equal(t, workerID, rec.WorkerID)
				assert.Equal(t, projectID, rec.ProjectID)
				assert.Equal(t, attendance.StatusCheckIn, rec.Status)
				assert.Equal(t, attendance.SourceManual, rec.Source)
				assert.True(t, rec.OccurredAt.Equal(at))
				return nil
			})

		resp, err := deps.service.CheckIn(ctx, attendance.CheckInRequest{
			WorkerID:   workerID.String(),
			ProjectID:  projectID.String(),
			OccurredAt: &at,
		})

		assert.NoError(t, err)
		assert.Equal(t, attendance.StatusCheckIn, resp.Status)
		assert.Equal(t, attendance.SourceManual, resp.Source)
		assert.Equal(t, workerID.String(), resp.WorkerID)

		if assert.Len(t, deps.notifier.notes, 1) {
			note := deps.notifier.notes[0]
			assert.Equal(t, attendance.StatusCheckIn, note.Status)
			assert.Equal(t, "Asia/Jakarta", note.Timezone)
			assert.NotNil(t, deps.notifier.txs[0])
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate within tolerance is rejected", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		deps.repo.EXPECT().
			FirstInWindow(ctx, workerID, projectID, attendance.StatusCheckIn, gomock.Any(), gomock.Any(), nil).
			Return(&attendance.Record{ID: uuid.New()}, nil)

		_, err := deps.service.CheckIn(ctx, attendance.CheckInRequest{
			WorkerID:   workerID.String(),
			ProjectID:  projectID.String(),
			OccurredAt: &at,
		})

		assertAppCode(t, err, apperror.CodeConflict)
		assert.Empty(t, deps.notifier.notes)
	})

	t.Run("invalid worker id", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		_, err := deps.service.CheckIn(ctx, attendance.CheckInRequest{
			WorkerID:  "not-a-uuid",
			ProjectID: projectID.String(),
		})

		assertAppCode(t, err, apperror.CodeInvalidInput)
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()
	projectID := uuid.New()
	at := time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC)
	anchorAt := at.Add(-8 * time.Hour)

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		deps.repo.EXPECT().
			LatestInWindow(ctx, workerID, projectID, attendance.StatusCheckIn, gomock.Any(), at).
			Return(&attendance.Record{ID: uuid.New(), OccurredAt: anchorAt}, nil)

		deps.repo.EXPECT().
			FirstInWindow(ctx, workerID, projectID, attendance.StatusCheckOut, at.Add(-attendance.Tolerance), at.Add(attendance.Tolerance), nil).
			Return(nil, gorm.ErrRecordNotFound)

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, rec *attendance.Record) error {
				assert.Equal(t, attendance.StatusCheckOut, rec.Status)
				assert.True(t, rec.OccurredAt.Equal(at))
				return nil
			})

		resp, err := deps.service.CheckOut(ctx, attendance.CheckOutRequest{
			WorkerID:   workerID.String(),
			ProjectID:  projectID.String(),
			OccurredAt: &at,
		})

		assert.NoError(t, err)
		assert.Equal(t, attendance.StatusCheckOut, resp.Status)

		if assert.Len(t, deps.notifier.notes, 1) {
			assert.Equal(t, attendance.StatusCheckOut, deps.notifier.notes[0].Status)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no check-in earlier in the day", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		deps.repo.EXPECT().
			LatestInWindow(ctx, workerID, projectID, attendance.StatusCheckIn, gomock.Any(), at).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.CheckOut(ctx, attendance.CheckOutRequest{
			WorkerID:   workerID.String(),
			ProjectID:  projectID.String(),
			OccurredAt: &at,
		})

		assertAppCode(t, err, apperror.CodeInvalidState)
	})

	t.Run("check-out not after its anchor is rejected", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		deps.repo.EXPECT().
			LatestInWindow(ctx, workerID, projectID, attendance.StatusCheckIn, gomock.Any(), at).
			Return(&attendance.Record{ID: uuid.New(), OccurredAt: at}, nil)

		_, err := deps.service.CheckOut(ctx, attendance.CheckOutRequest{
			WorkerID:   workerID.String(),
			ProjectID:  projectID.String(),
			OccurredAt: &at,
		})

		assertAppCode(t, err, apperror.CodeInvalidState)
	})

	t.Run("duplicate within tolerance is rejected", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		deps.repo.EXPECT().
			LatestInWindow(ctx, workerID, projectID, attendance.StatusCheckIn, gomock.Any(), at).
			Return(&attendance.Record{ID: uuid.New(), OccurredAt: anchorAt}, nil)

		deps.repo.EXPECT().
			FirstInWindow(ctx, workerID, projectID, attendance.StatusCheckOut, gomock.Any(), gomock.Any(), nil).
			Return(&attendance.Record{ID: uuid.New()}, nil)

		_, err := deps.service.CheckOut(ctx, attendance.CheckOutRequest{
			WorkerID:   workerID.String(),
			ProjectID:  projectID.String(),
			OccurredAt: &at,
		})

		assertAppCode(t, err, apperror.CodeConflict)
		assert.Empty(t, deps.notifier.notes)
	})
}

func TestAttendanceService_ListDay(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()

	t.Run("queries the worker's local day window", func(t *testing.T) {
		deps := setupServiceTest(t, "America/New_York")
		defer deps.db.Close()

		// 2025-03-07 in New York is EST (UTC-5).
		wantFrom := time.Date(2025, 3, 7, 5, 0, 0, 0, time.UTC)

		deps.repo.EXPECT().
			ListByWorker(ctx, workerID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id uuid.UUID, from, to time.Time) ([]attendance.Record, error) {
				assert.True(t, from.Equal(wantFrom))
				assert.True(t, to.After(from))
				return []attendance.Record{
					{ID: uuid.New(), WorkerID: workerID, ProjectID: uuid.New(), Status: attendance.StatusCheckIn, OccurredAt: wantFrom.Add(13 * time.Hour), Source: attendance.SourceAuto},
				}, nil
			})

		resp, err := deps.service.ListDay(ctx, workerID.String(), "2025-03-07")

		assert.NoError(t, err)
		if assert.Len(t, resp, 1) {
			assert.Equal(t, attendance.StatusCheckIn, resp[0].Status)
			assert.Equal(t, attendance.SourceAuto, resp[0].Source)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		_, err := deps.service.ListDay(ctx, workerID.String(), "07-03-2025")
		assertAppCode(t, err, apperror.CodeInvalidInput)
	})

	t.Run("invalid worker id", func(t *testing.T) {
		deps := setupServiceTest(t, "UTC")
		defer deps.db.Close()

		_, err := deps.service.ListDay(ctx, "nope", "2025-03-07")
		assertAppCode(t, err, apperror.CodeInvalidInput)
	})
}
