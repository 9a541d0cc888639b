package employee_test

import (
	"context"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/employee"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.NoError(t, db.AutoMigrate(&employee.Employee{}))
	return db
}

func seedEmployee(t *testing.T, repo employee.Repository, id, number, name, dept string, role domain.Role) {
	t.Helper()
	err := repo.Create(context.Background(), &employee.Employee{
		ID:             id,
		EmployeeNumber: number,
		Name:           name,
		Email:          id + "@example.com",
		Role:           role,
		Department:     dept,
		Designation:    "Staff",
		Salary:         decimal.NewFromInt(1000),
		JoinDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         employee.StatusActive,
		LeaveBalance:   domain.DefaultLeaveBalance(),
	})
	assert.NoError(t, err)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := employee.NewRepository(db)

	seedEmployee(t, repo, "emp-1", "EMP-000001", "Andi", "Engineering", domain.RoleEmployee)
	seedEmployee(t, repo, "emp-2", "EMP-000002", "Budi", "Finance", domain.RoleHR)
	seedEmployee(t, repo, "emp-3", "EMP-000003", "Citra", "Engineering", domain.RoleEmployee)

	t.Run("find all filters, sorts and paginates", func(t *testing.T) {
		empls, total, err := repo.FindAll(ctx, employee.ListEmployeesRequest{
			Department: "Engineering", SortBy: "name", SortDir: "desc", Page: 1, PageSize: 1,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, empls, 1)
		assert.Equal(t, "Citra", empls[0].Name)
	})

	t.Run("find all searches name and number", func(t *testing.T) {
		empls, total, err := repo.FindAll(ctx, employee.ListEmployeesRequest{Query: "000002", Page: 1, PageSize: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Budi", empls[0].Name)
	})

	t.Run("update touches only given columns", func(t *testing.T) {
		assert.NoError(t, db.Model(&employee.Employee{}).Where("id = ?", "emp-1").Update("balance_vacation", 12).Error)

		err := repo.Update(ctx, "emp-1", map[string]any{"designation": "Lead"})
		assert.NoError(t, err)

		got, err := repo.FindByID(ctx, "emp-1")
		assert.NoError(t, err)
		assert.Equal(t, "Lead", got.Designation)
		assert.Equal(t, 12, got.Vacation)
	})

	t.Run("update of unknown id is not found", func(t *testing.T) {
		err := repo.Update(ctx, "ghost", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("list ids by role", func(t *testing.T) {
		ids, err := repo.ListIDsByRole(ctx, domain.RoleHR)
		assert.NoError(t, err)
		assert.Equal(t, []string{"emp-2"}, ids)
	})

	t.Run("delete is soft and hides the row", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, "emp-3"))

		_, err := repo.FindByID(ctx, "emp-3")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		var raw employee.Employee
		assert.NoError(t, db.Unscoped().First(&raw, "id = ?", "emp-3").Error)
		assert.Equal(t, employee.StatusInactive, raw.Status)
		assert.True(t, raw.DeletedAt.Valid)

		assert.ErrorIs(t, repo.Delete(ctx, "emp-3"), gorm.ErrRecordNotFound)
	})

	t.Run("options list active employees only", func(t *testing.T) {
		opts, err := repo.FindOptions(ctx, "Engineering")
		assert.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.Equal(t, "Andi", opts[0].Name)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &employee.Employee{
			ID: "emp-9", EmployeeNumber: "EMP-000009", Name: "Dup", Email: "emp-1@example.com",
			Role: domain.RoleEmployee, Department: "X", Designation: "Y", JoinDate: time.Now(), Status: employee.StatusActive,
		})
		assert.Error(t, err)
	})
}
