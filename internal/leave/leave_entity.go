package leave

import (
	"time"

	"github.com/srihar-15/EMS/internal/domain"
)

type Leave struct {
	ID         string           `gorm:"type:uuid;primaryKey"`
	EmployeeID string           `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	LeaveType  domain.LeaveType `gorm:"type:varchar(20);not null"`
	StartDate  time.Time        `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate    time.Time        `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays  int              `gorm:"type:int;not null"`
	Reason     string           `gorm:"type:text"`

	Status        Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovalLevel Level  `gorm:"type:varchar(2);not null;default:'L1'"`

	EscalatedBy     *string `gorm:"type:uuid"`
	EscalatedAt     *time.Time
	ApprovedBy      *string `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *string `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	// Filled by the list query, not stored.
	EmployeeName string `gorm:"->;-:migration"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leaves"
}
