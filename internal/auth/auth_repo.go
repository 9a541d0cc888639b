package auth

import (
	"context"
	"database/sql"
	"strings"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetActiveByEmployee(ctx context.Context, employeeID string, active bool) error
	UpdateEmailByEmployee(ctx context.Context, employeeID, email string) error
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

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	if err := r.resolveProfile(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.resolveProfile(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) SetActiveByEmployee(ctx context.Context, employeeID string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("employee_id = ?", employeeID).
		Update("is_active", active).Error
}

func (r *repository) UpdateEmailByEmployee(ctx context.Context, employeeID, email string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("employee_id = ?", employeeID).
		Update("email", strings.ToLower(strings.TrimSpace(email))).Error
}

// resolveProfile copies name and role from the linked, non-deleted employee.
// A credential whose employee is gone resolves as not found.
func (r *repository) resolveProfile(ctx context.Context, user *User) error {
	var row struct {
		Name string
		Role string
	}
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("name, role").
		Where("id = ? AND deleted_at IS NULL", user.EmployeeID).
		Take(&row).Error
	if err != nil {
		return err
	}

	user.Name = row.Name
	user.Role = domain.Role(strings.ToUpper(strings.TrimSpace(row.Role)))
	if !user.Role.Valid() {
		user.Role = domain.RoleEmployee
	}
	return nil
}
