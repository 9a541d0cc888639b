package employee

import (
	"time"

	"github.com/srihar-15/EMS/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Email       string          `json:"email" binding:"required,email"`
	Role        string          `json:"role" binding:"required,oneof=ADMIN HR EMPLOYEE"`
	Department  string          `json:"department" binding:"required,max=100"`
	Designation string          `json:"designation" binding:"required,max=100"`
	Salary      decimal.Decimal `json:"salary"`
	JoinDate    string          `json:"join_date" binding:"required"`
	// Password is optional; the configured default is used when empty.
	Password string `json:"password" binding:"omitempty,min=8"`
}

// UpdateEmployeeRequest is a partial update: nil fields are left alone.
type UpdateEmployeeRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Role        *string          `json:"role" binding:"omitempty,oneof=ADMIN HR EMPLOYEE"`
	Department  *string          `json:"department" binding:"omitempty,min=1,max=100"`
	Designation *string          `json:"designation" binding:"omitempty,min=1,max=100"`
	Salary      *decimal.Decimal `json:"salary"`
	Status      *string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// TouchesPrivileged reports whether the request changes fields an employee
// may not edit on their own record.
func (r UpdateEmployeeRequest) TouchesPrivileged() bool {
	return r.Role != nil || r.Department != nil || r.Designation != nil || r.Salary != nil || r.Status != nil
}

// PrivilegedFields lists the privileged columns the request sets.
func (r UpdateEmployeeRequest) PrivilegedFields() []string {
	fields := []string{}
	if r.Role != nil {
		fields = append(fields, "role")
	}
	if r.Department != nil {
		fields = append(fields, "department")
	}
	if r.Designation != nil {
		fields = append(fields, "designation")
	}
	if r.Salary != nil {
		fields = append(fields, "salary")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

func (r UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && !r.TouchesPrivileged()
}

type ListEmployeesRequest struct {
	Query      string `form:"q"`
	Department string `form:"department"`
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name email employee_number join_date"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type EmployeeResponse struct {
	ID             string              `json:"id"`
	EmployeeNumber string              `json:"employee_number"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Role           string              `json:"role"`
	Department     string              `json:"department"`
	Designation    string              `json:"designation"`
	Salary         decimal.Decimal     `json:"salary"`
	JoinDate       string              `json:"join_date"`
	Status         string              `json:"status"`
	LeaveBalance   domain.LeaveBalance `json:"leave_balance"`
	CreatedAt      time.Time           `json:"created_at"`
}

type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
	Department     string `json:"department"`
}
