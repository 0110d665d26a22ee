package timezone

type SetTimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

type TimezoneResponse struct {
	WorkerID  string `json:"worker_id"`
	Timezone  string `json:"timezone"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
