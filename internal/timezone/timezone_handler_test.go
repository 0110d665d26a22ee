package timezone_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

type fakeService struct {
	setFn func(ctx context.Context, workerID string, req timezone.SetTimezoneRequest) (timezone.TimezoneResponse, error)
	getFn func(ctx context.Context, workerID string) (timezone.TimezoneResponse, error)
}

func (f *fakeService) Set(ctx context.Context, workerID string, req timezone.SetTimezoneRequest) (timezone.TimezoneResponse, error) {
	return f.setFn(ctx, workerID, req)
}
func (f *fakeService) Get(ctx context.Context, workerID string) (timezone.TimezoneResponse, error) {
	return f.getFn(ctx, workerID)
}

func TestHandler_SetAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	workerID := uuid.New().String()

	svc := &fakeService{
		setFn: func(ctx context.Context, wid string, req timezone.SetTimezoneRequest) (timezone.TimezoneResponse, error) {
			assert.Equal(t, workerID, wid)
			assert.Equal(t, "America/New_York", req.Timezone)
			return timezone.TimezoneResponse{WorkerID: wid, Timezone: req.Timezone}, nil
		},
		getFn: func(ctx context.Context, wid string) (timezone.TimezoneResponse, error) {
			return timezone.TimezoneResponse{WorkerID: wid, Timezone: "America/New_York"}, nil
		},
	}

	h := timezone.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: workerID}}
	c.Request = httptest.NewRequest(http.MethodPut, "/workers/"+workerID+"/timezone", strings.NewReader(`{"timezone":"America/New_York"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Set(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "America/New_York")

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Params = gin.Params{{Key: "id", Value: workerID}}
	c2.Request = httptest.NewRequest(http.MethodGet, "/workers/"+workerID+"/timezone", nil)
	h.Get(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestHandler_Set_MissingBodyField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := timezone.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPut, "/workers/x/timezone", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Set(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getFn: func(ctx context.Context, wid string) (timezone.TimezoneResponse, error) {
			return timezone.TimezoneResponse{}, apperror.ErrNotFound
		},
	}
	h := timezone.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodGet, "/workers/x/timezone", nil)
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
