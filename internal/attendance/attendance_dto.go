package attendance

import "time"

type CheckInRequest struct {
	WorkerID   string     `json:"worker_id" binding:"required"`
	ProjectID  string     `json:"project_id" binding:"required"`
	OccurredAt *time.Time `json:"occurred_at"`
	Note       *string    `json:"note"`
}

type CheckOutRequest struct {
	WorkerID   string     `json:"worker_id" binding:"required"`
	ProjectID  string     `json:"project_id" binding:"required"`
	OccurredAt *time.Time `json:"occurred_at"`
	Note       *string    `json:"note"`
}

type RecordResponse struct {
	ID         string  `json:"id"`
	WorkerID   string  `json:"worker_id"`
	ProjectID  string  `json:"project_id"`
	Status     string  `json:"status"`
	OccurredAt string  `json:"occurred_at"`
	Source     string  `json:"source"`
	Note       *string `json:"note,omitempty"`
}
