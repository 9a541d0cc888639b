package audit

import (
	"encoding/json"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
)

// Controlled vocabulary for Action.
const (
	ActionApplyLeave        = "APPLY_LEAVE"
	ActionEscalateLeave     = "ESCALATE_LEAVE"
	ActionApproveLeave      = "APPROVE_LEAVE"
	ActionRejectLeave       = "REJECT_LEAVE"
	ActionCheckIn           = "CHECK_IN"
	ActionCheckOut          = "CHECK_OUT"
	ActionCreateEmployee    = "CREATE_EMPLOYEE"
	ActionUpdateEmployee    = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee    = "DELETE_EMPLOYEE"
	ActionCreateReview      = "CREATE_REVIEW"
	ActionUpdateBudget      = "UPDATE_BUDGET"
	ActionLogin             = "LOGIN"
	ActionSecurityViolation = "SECURITY_VIOLATION"
	ActionServerShutdown    = "SERVER_SHUTDOWN"
)

// Entry is what callers hand to Logger.Log.
type Entry struct {
	Actor      domain.Actor
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
}

type ListAuditRequest struct {
	Action   string `form:"action"`
	ActorID  string `form:"actor_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type AuditLogResponse struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actor_id"`
	ActorRole  string          `json:"actor_role"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Details    json.RawMessage `json:"details"`
	IPAddress  string          `json:"ip_address,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
