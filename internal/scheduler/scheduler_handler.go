package scheduler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	schedulererrors "github.com/kamorahul/workforce-ai-sub001/internal/scheduler/errors"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/response"
)

type Handler struct {
	sched *Scheduler
}

func NewHandler(sched *Scheduler) *Handler {
	return &Handler{sched: sched}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Trigger starts a reconciliation run for a literal date. Answers 409 when
// another instance currently owns the date.
func (h *Handler) Trigger(c *gin.Context) {
	var req TriggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeServiceError(c, schedulererrors.ErrInvalidDateFormat)
		return
	}

	ref := h.sched.RefForDate(day.Year(), day.Month(), day.Day())
	report, err := h.sched.Trigger(c.Request.Context(), ref)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	in, out := report.CheckInSummary(), report.CheckOutSummary()
	response.Success(c, http.StatusOK, TriggerRunResponse{
		Date:       req.Date,
		Candidates: report.Candidates,
		CheckIns: PassSummaryResponse{
			Recorded:       in.Recorded,
			AlreadyCovered: in.AlreadyCovered,
			Skipped:        in.Skipped,
			Failed:         in.Failed,
		},
		CheckOuts: PassSummaryResponse{
			Recorded:       out.Recorded,
			AlreadyCovered: out.AlreadyCovered,
			Skipped:        out.Skipped,
			Failed:         out.Failed,
		},
	}, nil)
}

// List answers the job-run rows recorded for a date.
func (h *Handler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		writeServiceError(c, apperror.RequiredField("date"))
		return
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		writeServiceError(c, schedulererrors.ErrInvalidDateFormat)
		return
	}

	runs, err := h.sched.RunsForDate(c.Request.Context(), day.Year(), day.Month(), day.Day())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if len(runs) == 0 {
		writeServiceError(c, schedulererrors.ErrRunNotFound)
		return
	}

	res := make([]RunResponse, len(runs))
	for i, run := range runs {
		res[i] = mapRunToResponse(run)
	}
	response.Success(c, http.StatusOK, res, nil)
}
