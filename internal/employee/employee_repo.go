package employee

import (
	"context"
	"database/sql"
	"strings"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/shared/connection"
	"github.com/srihar-15/EMS/internal/shared/scope"

	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"name":            "name",
	"email":           "email",
	"employee_number": "employee_number",
	"join_date":       "join_date",
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, filter ListEmployeesRequest) ([]Employee, int64, error)
	FindOptions(ctx context.Context, department string) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, id string, changes map[string]any) error
	Delete(ctx context.Context, id string) error
	ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListEmployeesRequest) ([]Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&Employee{})
	if term := strings.TrimSpace(strings.ToLower(filter.Query)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_number) LIKE ?", like, like, like)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[filter.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if strings.EqualFold(filter.SortDir, "desc") {
		dir = "DESC"
	}

	var empls []Employee
	err := q.Order(col + " " + dir).
		Scopes(scope.Paginate(filter.Page, filter.PageSize)).
		Find(&empls).Error
	return empls, total, err
}

func (r *repository) FindOptions(ctx context.Context, department string) ([]Employee, error) {
	q := r.db.WithContext(ctx).
		Select("id", "employee_number", "name", "department").
		Where("status = ?", StatusActive)
	if department != "" {
		q = q.Where("department = ?", department)
	}

	var empls []Employee
	err := q.Order("name ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	if err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &empl, nil
}

// Update writes only the given columns so the leave balances owned by the
// leave engine are never overwritten.
func (r *repository) Update(ctx context.Context, id string, changes map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&Employee{}).Where("id = ?", id).Update("status", StatusInactive).Error; err != nil {
		return err
	}

	res := db.Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("role = ? AND status = ?", role, StatusActive).
		Pluck("id", &ids).Error
	return ids, err
}
