package department

import "github.com/shopspring/decimal"

type UpdateBudgetRequest struct {
	Allocated  *decimal.Decimal `json:"allocated" binding:"required"`
	FiscalYear int              `json:"fiscal_year" binding:"omitempty,min=2000,max=2100"`
}

type BudgetResponse struct {
	Department string `json:"department"`
	Allocated  string `json:"allocated"`
	Spend      string `json:"spend"`
	Remaining  string `json:"remaining"`
	// Utilization is spend as a percentage of allocated, capped at 100.
	Utilization string  `json:"utilization"`
	Headcount   int64   `json:"headcount"`
	FiscalYear  int     `json:"fiscal_year"`
	UpdatedBy   *string `json:"updated_by,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}
