package audit

import "time"

type AuditLog struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ActorID    string    `gorm:"type:varchar(64);not null;index:idx_audit_logs_actor"`
	ActorRole  string    `gorm:"type:varchar(20);not null"`
	Action     string    `gorm:"type:varchar(50);not null;index:idx_audit_logs_action"`
	EntityType string    `gorm:"type:varchar(50);not null"`
	EntityID   string    `gorm:"type:varchar(64)"`
	Details    string    `gorm:"type:jsonb;not null;default:'{}'"`
	IPAddress  string    `gorm:"type:varchar(64)"`
	UserAgent  string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index:idx_audit_logs_created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
