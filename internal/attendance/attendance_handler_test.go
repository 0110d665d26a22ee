package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kamorahul/workforce-ai-sub001/internal/attendance"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
)

type fakeService struct {
	checkInFn  func(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error)
	checkOutFn func(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error)
	listDayFn  func(ctx context.Context, workerID, date string) ([]attendance.RecordResponse, error)
}

func (f *fakeService) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	return f.checkInFn(ctx, req)
}
func (f *fakeService) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	return f.checkOutFn(ctx, req)
}
func (f *fakeService) ListDay(ctx context.Context, workerID, date string) ([]attendance.RecordResponse, error) {
	return f.listDayFn(ctx, workerID, date)
}

func TestHandler_CheckInAndList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	workerID := uuid.New().String()
	projectID := uuid.New().String()

	svc := &fakeService{
		checkInFn: func(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
			assert.Equal(t, workerID, req.WorkerID)
			assert.Equal(t, projectID, req.ProjectID)
			return attendance.RecordResponse{ID: uuid.New().String(), WorkerID: req.WorkerID, Status: attendance.StatusCheckIn}, nil
		},
		listDayFn: func(ctx context.Context, wid, date string) ([]attendance.RecordResponse, error) {
			assert.Equal(t, workerID, wid)
			assert.Equal(t, "2025-06-10", date)
			return []attendance.RecordResponse{{ID: uuid.New().String()}, {ID: uuid.New().String()}}, nil
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"worker_id":"` + workerID + `","project_id":"` + projectID + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/attendances?worker_id="+workerID+"&date=2025-06-10", nil)
	h.List(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), `"total":2`)

	w3 := httptest.NewRecorder()
	c3, _ := gin.CreateTestContext(w3)
	c3.Request = httptest.NewRequest(http.MethodGet, "/attendances?worker_id="+workerID+"&date=2025-06-10&page=2&page_size=1", nil)
	h.List(c3)
	assert.Equal(t, http.StatusOK, w3.Code)
	assert.Contains(t, w3.Body.String(), `"page":2`)
	assert.Contains(t, w3.Body.String(), `"totalPages":2`)
}

func TestHandler_CheckIn_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(`{"worker_id":""}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestHandler_CheckOut_ServiceErrorIsMapped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		checkOutFn: func(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
			return attendance.RecordResponse{}, apperror.New(apperror.CodeInvalidState, "no check-in found earlier in the worker's local day", 409)
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"worker_id":"` + uuid.New().String() + `","project_id":"` + uuid.New().String() + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-out", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckOut(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInvalidState)
}

func TestHandler_List_RequiresWorkerID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CheckIn_CachesIdempotentResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resp := attendance.RecordResponse{
		ID:        uuid.New().String(),
		WorkerID:  uuid.New().String(),
		ProjectID: uuid.New().String(),
		Status:    attendance.StatusCheckIn,
		Source:    attendance.SourceManual,
	}
	svc := &fakeService{
		checkInFn: func(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
			return resp, nil
		},
	}

	rdb, redisMock := redismock.NewClientMock()
	h := attendance.NewHandlerWithRedis(svc, rdb)

	payload, _ := json.Marshal(resp)
	redisMock.ExpectSet("idemp:/attendances/check-in:abc", payload, 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel("idemp:/attendances/check-in:abc:lock").SetVal(1)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("idempotency_cache_key", "idemp:/attendances/check-in:abc")
	c.Set("idempotency_lock_key", "idemp:/attendances/check-in:abc:lock")
	body := `{"worker_id":"` + resp.WorkerID + `","project_id":"` + resp.ProjectID + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckIn(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
