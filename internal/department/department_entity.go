package department

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepartmentBudget is keyed by the free-text department name employees carry.
type DepartmentBudget struct {
	Department string          `gorm:"type:varchar(100);primaryKey"`
	Allocated  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	FiscalYear int             `gorm:"not null"`
	UpdatedBy  *string         `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DepartmentBudget) TableName() string {
	return "department_budgets"
}

// DepartmentSpend is the salary cost of a department's active employees.
type DepartmentSpend struct {
	Department string
	Spend      decimal.Decimal
	Headcount  int64
}
