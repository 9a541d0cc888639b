package domain

const (
	ResourceEmployee     = "employee"
	ResourceLeave        = "leave"
	ResourceAttendance   = "attendance"
	ResourcePerformance  = "performance"
	ResourceAudit        = "audit"
	ResourceNotification = "notification"
	ResourceBudget       = "budget"
	ResourceInsights     = "insights"
)

const (
	ActionCreate    = "create"
	ActionRead      = "read"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionList      = "list"
	ActionApproveL1 = "approve_l1"
	ActionApproveL2 = "approve_l2"
	ActionReject    = "reject"
	ActionReadAll   = "read_all"
)

type EnforceRequest struct {
	Actor    Actor
	Resource string
	Action   string
	// TargetID is the employee the action touches, empty when not applicable.
	TargetID string
}

func (r EnforceRequest) Permission() string {
	return r.Resource + ":" + r.Action
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Key      string `json:"key"`
}

type PermissionsResponse struct {
	Role        Role                 `json:"role"`
	Permissions []PermissionResponse `json:"permissions"`
	SelfAccess  []string             `json:"self_access"`
}
