package department

import (
	"context"
	"database/sql"

	"github.com/srihar-15/EMS/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]DepartmentBudget, error)
	FindByDepartment(ctx context.Context, name string) (*DepartmentBudget, error)
	Upsert(ctx context.Context, budget *DepartmentBudget) error
	Spend(ctx context.Context) ([]DepartmentSpend, error)
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

func (r *repository) FindAll(ctx context.Context) ([]DepartmentBudget, error) {
	var budgets []DepartmentBudget
	err := r.db.WithContext(ctx).
		Order("department ASC").
		Find(&budgets).Error
	return budgets, err
}

func (r *repository) FindByDepartment(ctx context.Context, name string) (*DepartmentBudget, error) {
	var budget DepartmentBudget
	err := r.db.WithContext(ctx).
		Where("department = ?", name).
		Take(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *repository) Upsert(ctx context.Context, budget *DepartmentBudget) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "department"}},
			DoUpdates: clause.AssignmentColumns([]string{"allocated", "fiscal_year", "updated_by", "updated_at"}),
		}).
		Create(budget).Error
}

func (r *repository) Spend(ctx context.Context) ([]DepartmentSpend, error) {
	var rows []DepartmentSpend
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("department, COALESCE(SUM(salary), 0) AS spend, COUNT(*) AS headcount").
		Where("status = ? AND deleted_at IS NULL", "ACTIVE").
		Group("department").
		Order("department ASC").
		Scan(&rows).Error
	return rows, err
}
