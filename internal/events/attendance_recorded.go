package events

import "time"

const AttendanceRecordedTopic = "workforce.attendance.recorded.v1"

// AttendanceRecordedEvent is published whenever a canonical attendance record
// is created, by the nightly reconciler or by a manual action. The messaging
// transport downstream only needs WorkerID and Text; the rest lets other
// consumers correlate the event with the record.
type AttendanceRecordedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	RecordID   string    `json:"record_id"`
	WorkerID   string    `json:"worker_id"`
	ProjectID  string    `json:"project_id"`
	Status     string    `json:"status"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
	Text       string    `json:"text"`
}
