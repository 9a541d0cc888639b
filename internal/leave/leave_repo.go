package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/shared/connection"
	"github.com/srihar-15/EMS/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, filter ListLeavesRequest) ([]Leave, int64, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	// Transition writes changes only while the row is still in status from.
	// It reports false when another writer moved the request first.
	Transition(ctx context.Context, id string, from Status, changes map[string]any) (bool, error)
	GetBalance(ctx context.Context, employeeID string, t domain.LeaveType) (int, error)
	// DeductBalance subtracts days only if the balance still covers them and
	// returns the remaining balance. ok is false when it does not.
	DeductBalance(ctx context.Context, employeeID string, t domain.LeaveType, days int) (remaining int, ok bool, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListLeavesRequest) ([]Leave, int64, error) {
	q := r.db.WithContext(ctx).Model(&Leave{})
	if filter.EmployeeID != "" {
		q = q.Where("leaves.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("leaves.status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := q.
		Select("leaves.*, employees.name AS employee_name").
		Joins("LEFT JOIN employees ON employees.id = leaves.employee_id").
		Order("leaves.created_at DESC").
		Scopes(scope.Paginate(filter.Page, filter.PageSize)).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Select("leaves.*, employees.name AS employee_name").
		Joins("LEFT JOIN employees ON employees.id = leaves.employee_id").
		Where("leaves.id = ?", id).
		Take(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Transition(ctx context.Context, id string, from Status, changes map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, from).
		Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) GetBalance(ctx context.Context, employeeID string, t domain.LeaveType) (int, error) {
	var balance int
	res := r.db.WithContext(ctx).
		Table("employees").
		Select(t.BalanceColumn()).
		Where("id = ? AND deleted_at IS NULL", employeeID).
		Scan(&balance)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return balance, nil
}

func (r *repository) DeductBalance(ctx context.Context, employeeID string, t domain.LeaveType, days int) (int, bool, error) {
	col := t.BalanceColumn()
	res := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND deleted_at IS NULL AND "+col+" >= ?", employeeID, days).
		Update(col, gorm.Expr(col+" - ?", days))
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	remaining, err := r.GetBalance(ctx, employeeID, t)
	return remaining, err == nil, err
}
