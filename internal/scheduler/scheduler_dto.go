package scheduler

import "time"

type TriggerRunRequest struct {
	Date string `json:"date" binding:"required"`
}

type PassSummaryResponse struct {
	Recorded       int `json:"recorded"`
	AlreadyCovered int `json:"already_covered"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
}

type TriggerRunResponse struct {
	Date       string              `json:"date"`
	Candidates int                 `json:"candidates"`
	CheckIns   PassSummaryResponse `json:"checkins"`
	CheckOuts  PassSummaryResponse `json:"checkouts"`
}

type RunResponse struct {
	ID         string  `json:"id"`
	JobName    string  `json:"job_name"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Candidates int     `json:"candidates"`
	Recorded   int     `json:"recorded"`
	Failed     int     `json:"failed"`
	LastError  *string `json:"last_error,omitempty"`
	StartedAt  string  `json:"started_at"`
	FinishedAt string  `json:"finished_at,omitempty"`
}

func mapRunToResponse(run JobRun) RunResponse {
	resp := RunResponse{
		ID:         run.ID.String(),
		JobName:    run.JobName,
		Date:       run.RunDate.Format("2006-01-02"),
		Status:     run.Status,
		Candidates: run.Candidates,
		Recorded:   run.Recorded,
		Failed:     run.Failed,
		LastError:  run.LastError,
		StartedAt:  run.StartedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return resp
}
