package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type ListLeavesRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=PENDING PENDING_ADMIN APPROVED REJECTED"`
	EmployeeID string `form:"employee_id"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovalLevel   string  `json:"approval_level"`
	EscalatedBy     *string `json:"escalated_by,omitempty"`
	EscalatedAt     *string `json:"escalated_at,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	// OverlapsExisting is only reported on submission.
	OverlapsExisting bool   `json:"overlaps_existing,omitempty"`
	CreatedAt        string `json:"created_at"`
}
