package notification

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	RecipientID string    `gorm:"type:uuid;not null;index:idx_notifications_recipient_created"`
	Message     string    `gorm:"type:text;not null"`
	Severity    string    `gorm:"type:varchar(20);not null;default:'info'"`
	Link        string    `gorm:"type:varchar(255)"`
	IsRead      bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null;index:idx_notifications_recipient_created"`
}
