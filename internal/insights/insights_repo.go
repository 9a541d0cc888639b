package insights

import (
	"context"

	"github.com/srihar-15/EMS/internal/employee"
	"github.com/srihar-15/EMS/internal/leave"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentLeaveCount = 5

type DepartmentStat struct {
	Department    string          `json:"department"`
	Headcount     int64           `json:"headcount"`
	AverageSalary decimal.Decimal `json:"average_salary"`
}

type RecentLeave struct {
	LeaveType  string `json:"leave_type"`
	TotalDays  int    `json:"total_days"`
	Status     string `json:"status"`
	Department string `json:"department"`
}

// Snapshot is the aggregate view handed to the analyst. It carries no names
// or ids.
type Snapshot struct {
	TotalEmployees  int64            `json:"total_employees"`
	Departments     []DepartmentStat `json:"departments"`
	PendingLeaves   int64            `json:"pending_leaves"`
	EscalatedLeaves int64            `json:"escalated_leaves"`
	RecentLeaves    []RecentLeave    `json:"recent_leaves"`
}

//go:generate mockgen -source=insights_repo.go -destination=mock/insights_repo_mock.go -package=mock
type Repository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) activeEmployees(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("employees").
		Where("status = ? AND deleted_at IS NULL", employee.StatusActive)
}

func (r *repository) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	if err := r.activeEmployees(ctx).Count(&snap.TotalEmployees).Error; err != nil {
		return Snapshot{}, err
	}

	if err := r.activeEmployees(ctx).
		Select("department, COUNT(*) AS headcount, COALESCE(AVG(salary), 0) AS average_salary").
		Group("department").
		Order("department ASC").
		Scan(&snap.Departments).Error; err != nil {
		return Snapshot{}, err
	}

	if err := r.db.WithContext(ctx).
		Table("leaves").
		Where("status = ?", leave.StatusPending).
		Count(&snap.PendingLeaves).Error; err != nil {
		return Snapshot{}, err
	}

	if err := r.db.WithContext(ctx).
		Table("leaves").
		Where("status = ?", leave.StatusPendingAdmin).
		Count(&snap.EscalatedLeaves).Error; err != nil {
		return Snapshot{}, err
	}

	if err := r.db.WithContext(ctx).
		Table("leaves").
		Select("leaves.leave_type, leaves.total_days, leaves.status, COALESCE(employees.department, '') AS department").
		Joins("LEFT JOIN employees ON employees.id = leaves.employee_id").
		Order("leaves.created_at DESC").
		Limit(recentLeaveCount).
		Scan(&snap.RecentLeaves).Error; err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}
