package rbac

type EnforceRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
	TargetID string `json:"target_id"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
