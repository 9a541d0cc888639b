package events

import "time"

const (
	LeaveDecidedTopic = "hr.leave.decisions.v1"
	LeaveDecidedType  = "leave_decided"
)

// LeaveDecidedEvent is emitted once a leave request reaches APPROVED or
// REJECTED.
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	Days       int       `json:"days"`
	DecidedBy  string    `json:"decided_by"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
