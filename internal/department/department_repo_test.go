package department_test

import (
	"context"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/department"
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
	assert.NoError(t, db.AutoMigrate(&employee.Employee{}, &department.DepartmentBudget{}))
	return db
}

func TestDepartmentRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := department.NewRepository(db)

	staff := []struct {
		id, dept, status, salary string
	}{
		{"e1", "Engineering", employee.StatusActive, "1000"},
		{"e2", "Engineering", employee.StatusActive, "2500.5"},
		{"e3", "Engineering", employee.StatusInactive, "9000"},
		{"e4", "Sales", employee.StatusActive, "700"},
	}
	for _, s := range staff {
		assert.NoError(t, db.Create(&employee.Employee{
			ID: s.id, EmployeeNumber: "EMP-" + s.id, Name: s.id, Email: s.id + "@example.com",
			Department: s.dept, Designation: "Staff", Salary: decimal.RequireFromString(s.salary),
			JoinDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Status: s.status,
		}).Error)
	}
	assert.NoError(t, db.Delete(&employee.Employee{}, "id = ?", "e4").Error)

	t.Run("spend counts active employees only", func(t *testing.T) {
		spend, err := repo.Spend(ctx)
		assert.NoError(t, err)
		if assert.Len(t, spend, 1) {
			assert.Equal(t, "Engineering", spend[0].Department)
			assert.Equal(t, "3500.50", spend[0].Spend.StringFixed(2))
			assert.Equal(t, int64(2), spend[0].Headcount)
		}
	})

	t.Run("upsert inserts then updates", func(t *testing.T) {
		by := "admin-1"
		assert.NoError(t, repo.Upsert(ctx, &department.DepartmentBudget{
			Department: "Engineering", Allocated: decimal.NewFromInt(5000), FiscalYear: 2025, UpdatedBy: &by,
		}))
		assert.NoError(t, repo.Upsert(ctx, &department.DepartmentBudget{
			Department: "Engineering", Allocated: decimal.NewFromInt(8000), FiscalYear: 2026, UpdatedBy: &by,
		}))

		all, err := repo.FindAll(ctx)
		assert.NoError(t, err)
		if assert.Len(t, all, 1) {
			assert.Equal(t, "8000.00", all[0].Allocated.StringFixed(2))
			assert.Equal(t, 2026, all[0].FiscalYear)
		}

		_, err = repo.FindByDepartment(ctx, "Legal")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
