package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusHalfDay = "HALF_DAY"
)

type Attendance struct {
	ID             string          `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     string          `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time       `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	CheckIn        time.Time       `gorm:"column:check_in;not null"`
	CheckOut       *time.Time      `gorm:"column:check_out"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;default:'PRESENT'"`
	TotalHours     decimal.Decimal `gorm:"column:total_hours;type:numeric(5,2);not null;default:0"`
	Latitude       *float64        `gorm:"column:latitude"`
	Longitude      *float64        `gorm:"column:longitude"`
	Notes          *string         `gorm:"column:notes;type:text"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}
