package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srihar-15/EMS/internal/auth"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/employee"
	"github.com/srihar-15/EMS/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdmin connects with cfg and provisions the first administrator.
func SeedAdmin(ctx context.Context, cfg *config.Config) error {
	gormDB, sqlDB, err := connectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	_, err = seedAdmin(ctx, sqlDB, gormDB, cfg.Seed)
	return err
}

// seedAdmin is a no-op when a credential for the email already exists.
// It reports whether a new administrator was created.
func seedAdmin(ctx context.Context, db *sql.DB, gormDB *gorm.DB, cfg config.SeedConfig) (bool, error) {
	logger := zap.L().Named("app.seed")

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return false, fmt.Errorf("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	users := auth.NewRepository(gormDB)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		logger.Info("admin already provisioned", zap.String("email", email))
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	nextVal, err := counter.NewRepository(gormDB).GetNextValue(ctx, counter.EmployeeNumber)
	if err != nil {
		return false, err
	}

	admin := &employee.Employee{
		ID:             uuid.NewString(),
		EmployeeNumber: fmt.Sprintf("EMP-%06d", nextVal),
		Name:           "Administrator",
		Email:          email,
		Role:           domain.RoleAdmin,
		Department:     "Administration",
		Designation:    "System Administrator",
		Salary:         decimal.Zero,
		JoinDate:       time.Now().UTC().Truncate(24 * time.Hour),
		Status:         employee.StatusActive,
		LeaveBalance:   domain.DefaultLeaveBalance(),
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := employee.NewRepository(gormDB).WithTx(tx).Create(ctx, admin); err != nil {
		return false, err
	}
	if err := users.WithTx(tx).Create(ctx, &auth.User{
		ID:         uuid.NewString(),
		EmployeeID: admin.ID,
		Email:      email,
		Password:   hashed,
		IsActive:   true,
	}); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	logger.Info("admin provisioned",
		zap.String("employee_id", admin.ID),
		zap.String("employee_number", admin.EmployeeNumber),
	)
	return true, nil
}
