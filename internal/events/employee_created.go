package events

import "time"

const (
	EmployeeCreatedTopic = "hr.employee.lifecycle.v1"
	EmployeeCreatedType  = "employee_created"
)

type EmployeeCreatedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeNumber string    `json:"employee_number"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	Role           string    `json:"role"`
	CreatedBy      string    `json:"created_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
