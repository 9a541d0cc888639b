package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/srihar-15/EMS/internal/shared/connection"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	// CheckOut only writes while check_out is still empty; false means another
	// request got there first.
	CheckOut(ctx context.Context, id string, at time.Time, hours decimal.Decimal, status string, notes *string) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Attendance, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) CheckOut(ctx context.Context, id string, at time.Time, hours decimal.Decimal, status string, notes *string) (bool, error) {
	changes := map[string]any{
		"check_out":   at,
		"total_hours": hours,
		"status":      status,
	}
	if notes != nil {
		changes["notes"] = *notes
	}
	res := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ? AND check_out IS NULL", id).
		Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("attendance_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
