package performance

import "time"

const (
	GoalPending    = "PENDING"
	GoalInProgress = "IN_PROGRESS"
	GoalCompleted  = "COMPLETED"
)

// PerformanceReview rows are never updated after insert.
type PerformanceReview struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"type:uuid;not null;index:idx_performance_reviews_employee"`
	ReviewerID string    `gorm:"type:uuid;not null"`
	Rating     int       `gorm:"not null"`
	Feedback   string    `gorm:"type:text;not null"`
	Goals      string    `gorm:"type:jsonb;not null;default:'[]'"`
	Period     string    `gorm:"type:varchar(50);not null"`
	ReviewDate time.Time `gorm:"type:date;not null"`

	ReviewerName string `gorm:"->;-:migration"`

	CreatedAt time.Time
}

func (PerformanceReview) TableName() string {
	return "performance_reviews"
}

type Goal struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}
