package employee

import (
	"time"

	"github.com/srihar-15/EMS/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Employee struct {
	ID             string          `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Email          string          `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Role           domain.Role     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	Department     string          `gorm:"type:varchar(100);not null;index"`
	Designation    string          `gorm:"type:varchar(100);not null"`
	Salary         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	JoinDate       time.Time       `gorm:"type:date;not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	domain.LeaveBalance `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
