package performance

import (
	"context"
	"database/sql"

	"github.com/srihar-15/EMS/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=performance_repo.go -destination=mock/performance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, review *PerformanceReview) error
	ListByEmployee(ctx context.Context, employeeID string) ([]PerformanceReview, error)
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, review *PerformanceReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]PerformanceReview, error) {
	var reviews []PerformanceReview
	err := r.db.WithContext(ctx).
		Model(&PerformanceReview{}).
		Select("performance_reviews.*, employees.name AS reviewer_name").
		Joins("LEFT JOIN employees ON employees.id = performance_reviews.reviewer_id").
		Where("performance_reviews.employee_id = ?", employeeID).
		Order("performance_reviews.review_date DESC").
		Order("performance_reviews.created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND deleted_at IS NULL", employeeID).
		Count(&count).Error
	return count > 0, err
}
