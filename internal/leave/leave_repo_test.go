package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/employee"
	"github.com/srihar-15/EMS/internal/leave"

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

	assert.NoError(t, db.AutoMigrate(&employee.Employee{}, &leave.Leave{}))
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, id, name string, role domain.Role, balance domain.LeaveBalance) {
	t.Helper()
	assert.NoError(t, db.Create(&employee.Employee{
		ID:             id,
		EmployeeNumber: "EMP-" + id,
		Name:           name,
		Email:          id + "@example.com",
		Role:           role,
		Department:     "Engineering",
		Designation:    "Staff",
		Salary:         decimal.NewFromInt(1000),
		JoinDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         employee.StatusActive,
		LeaveBalance:   balance,
	}).Error)
}

func TestLeaveRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := leave.NewRepository(db)

	seedEmployee(t, db, "emp-1", "Andi", domain.RoleEmployee, domain.DefaultLeaveBalance())
	seedEmployee(t, db, "emp-2", "Budi", domain.RoleEmployee, domain.LeaveBalance{Vacation: 2, Sick: 1, Personal: 0})

	l := &leave.Leave{
		ID:            "leave-1",
		EmployeeID:    "emp-1",
		LeaveType:     domain.LeaveVacation,
		StartDate:     date("2026-03-02"),
		EndDate:       date("2026-03-04"),
		TotalDays:     3,
		Status:        leave.StatusPending,
		ApprovalLevel: leave.LevelL1,
	}
	assert.NoError(t, repo.Create(ctx, l))

	t.Run("find by id joins the employee name", func(t *testing.T) {
		got, err := repo.FindByID(ctx, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "Andi", got.EmployeeName)
		assert.Equal(t, 3, got.TotalDays)

		_, err = repo.FindByID(ctx, "ghost")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("overlap ignores rejected requests", func(t *testing.T) {
		overlap, err := repo.HasOverlappingPeriod(ctx, "emp-1", date("2026-03-04"), date("2026-03-05"))
		assert.NoError(t, err)
		assert.True(t, overlap)

		overlap, err = repo.HasOverlappingPeriod(ctx, "emp-1", date("2026-03-05"), date("2026-03-06"))
		assert.NoError(t, err)
		assert.False(t, overlap)

		overlap, err = repo.HasOverlappingPeriod(ctx, "emp-2", date("2026-03-02"), date("2026-03-04"))
		assert.NoError(t, err)
		assert.False(t, overlap)
	})

	t.Run("transition is conditional on the current status", func(t *testing.T) {
		ok, err := repo.Transition(ctx, "leave-1", leave.StatusPendingAdmin, map[string]any{"status": leave.StatusApproved})
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.Transition(ctx, "leave-1", leave.StatusPending, map[string]any{"status": leave.StatusRejected})
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Transition(ctx, "leave-1", leave.StatusPending, map[string]any{"status": leave.StatusApproved})
		assert.NoError(t, err)
		assert.False(t, ok)

		overlap, err := repo.HasOverlappingPeriod(ctx, "emp-1", date("2026-03-02"), date("2026-03-04"))
		assert.NoError(t, err)
		assert.False(t, overlap)
	})

	t.Run("balance deduction never overdraws", func(t *testing.T) {
		balance, err := repo.GetBalance(ctx, "emp-2", domain.LeaveVacation)
		assert.NoError(t, err)
		assert.Equal(t, 2, balance)

		_, ok, err := repo.DeductBalance(ctx, "emp-2", domain.LeaveVacation, 3)
		assert.NoError(t, err)
		assert.False(t, ok)

		remaining, ok, err := repo.DeductBalance(ctx, "emp-2", domain.LeaveVacation, 2)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, remaining)

		sick, err := repo.GetBalance(ctx, "emp-2", domain.LeaveSick)
		assert.NoError(t, err)
		assert.Equal(t, 1, sick)

		_, err = repo.GetBalance(ctx, "ghost", domain.LeaveSick)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("find all filters by employee and status", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, &leave.Leave{
			ID: "leave-2", EmployeeID: "emp-2", LeaveType: domain.LeaveSick,
			StartDate: date("2026-04-01"), EndDate: date("2026-04-01"), TotalDays: 1,
			Status: leave.StatusPending, ApprovalLevel: leave.LevelL1,
		}))

		all, total, err := repo.FindAll(ctx, leave.ListLeavesRequest{Page: 1, PageSize: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)

		mine, total, err := repo.FindAll(ctx, leave.ListLeavesRequest{EmployeeID: "emp-2", Status: "PENDING", Page: 1, PageSize: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Budi", mine[0].EmployeeName)
	})
}
