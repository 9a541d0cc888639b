package leave

import (
	"time"

	leaveerrors "github.com/srihar-15/EMS/internal/leave/errors"
)

type Status string

const (
	StatusPending      Status = "PENDING"
	StatusPendingAdmin Status = "PENDING_ADMIN"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
)

// Terminal statuses are immutable.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
)

const DefaultRejectionReason = "Operational requirements"

// Workflow holds the leave state machine. It does no I/O.
type Workflow struct {
	// EscalationThreshold is the largest request (in days) HR may finalize alone.
	EscalationThreshold int
}

func NewWorkflow(threshold int) Workflow {
	if threshold < 1 {
		threshold = 3
	}
	return Workflow{EscalationThreshold: threshold}
}

// InclusiveDays counts calendar days from start to end, both included.
// It is zero or negative when end is before start.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

func (w Workflow) RequiredLevel(days int) Level {
	if days > w.EscalationThreshold {
		return LevelL2
	}
	return LevelL1
}

// CheckSubmit validates a new request against the balance held for its type.
func (w Workflow) CheckSubmit(days, balance int) error {
	if days <= 0 {
		return leaveerrors.ErrInvalidRange
	}
	if days > balance {
		return leaveerrors.ErrInsufficientBalance
	}
	return nil
}

// FirstLevel returns the status a first-level approval moves the request to:
// PENDING_ADMIN when the request was tagged L2 at submission, APPROVED
// otherwise. The configured threshold is not consulted again.
func (w Workflow) FirstLevel(current Status, level Level) (Status, error) {
	if current != StatusPending {
		return "", leaveerrors.ErrNotPending
	}
	if level == LevelL2 {
		return StatusPendingAdmin, nil
	}
	return StatusApproved, nil
}

func (w Workflow) SecondLevel(current Status) (Status, error) {
	if current != StatusPendingAdmin {
		return "", leaveerrors.ErrNotEscalated
	}
	return StatusApproved, nil
}

func (w Workflow) Reject(current Status) (Status, error) {
	if current != StatusPending && current != StatusPendingAdmin {
		return "", leaveerrors.ErrNotPending
	}
	return StatusRejected, nil
}

// CheckFinalize re-validates the balance at approval time.
func (w Workflow) CheckFinalize(days, balance int) error {
	if days > balance {
		return leaveerrors.ErrBalanceMismatch
	}
	return nil
}

// staleError maps a lost conditional write on status to the error a caller
// racing from that pre-state would have seen.
func staleError(from Status) error {
	if from == StatusPendingAdmin {
		return leaveerrors.ErrNotEscalated
	}
	return leaveerrors.ErrNotPending
}
