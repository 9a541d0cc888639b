package performance

type GoalRequest struct {
	Description string `json:"description" binding:"required,max=500"`
	Status      string `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

type CreateReviewRequest struct {
	EmployeeID string        `json:"employee_id" binding:"required,uuid"`
	Rating     int           `json:"rating" binding:"required,min=1,max=5"`
	Feedback   string        `json:"feedback" binding:"required,max=5000"`
	Goals      []GoalRequest `json:"goals" binding:"omitempty,max=20,dive"`
	Period     string        `json:"period" binding:"required,max=50"`
	// ReviewDate defaults to today when empty.
	ReviewDate string `json:"review_date"`
}

type ReviewResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	ReviewerID   string `json:"reviewer_id"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	Rating       int    `json:"rating"`
	Feedback     string `json:"feedback"`
	Goals        []Goal `json:"goals"`
	Period       string `json:"period"`
	ReviewDate   string `json:"review_date"`
	CreatedAt    string `json:"created_at"`
}
