package auth

import (
	"time"

	"github.com/srihar-15/EMS/internal/domain"
)

// User is the login credential linked one-to-one with an employee record.
type User struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	EmployeeID string `gorm:"type:uuid;not null;uniqueIndex"`
	Email      string `gorm:"type:varchar(255);uniqueIndex:uq_user_email;not null"`
	Password   string `gorm:"type:varchar(255);not null"`
	IsActive   bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// resolved from the linked employee
	Name string      `gorm:"-"`
	Role domain.Role `gorm:"-"`
}

func (User) TableName() string {
	return "users"
}
