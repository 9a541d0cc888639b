package app

import (
	"context"
	"testing"

	"github.com/srihar-15/EMS/internal/auth"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/employee"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.NoError(t, db.AutoMigrate(&employee.Employee{}, &auth.User{}))
	assert.NoError(t, db.Exec(`CREATE TABLE counters (
		counter_type TEXT PRIMARY KEY,
		last_value INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error)
	return db
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	seed := config.SeedConfig{AdminEmail: " Admin@EMS.local ", AdminPassword: "s3cret-pass"}

	t.Run("creates admin once", func(t *testing.T) {
		gormDB := newSeedDB(t)
		sqlDB, _ := gormDB.DB()

		created, err := seedAdmin(ctx, sqlDB, gormDB, seed)
		assert.NoError(t, err)
		assert.True(t, created)

		created, err = seedAdmin(ctx, sqlDB, gormDB, seed)
		assert.NoError(t, err)
		assert.False(t, created)

		var count int64
		assert.NoError(t, gormDB.Model(&employee.Employee{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		user, err := auth.NewRepository(gormDB).GetByEmail(ctx, "admin@ems.local")
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))

		var admin employee.Employee
		assert.NoError(t, gormDB.First(&admin, "id = ?", user.EmployeeID).Error)
		assert.Equal(t, "EMP-000001", admin.EmployeeNumber)
		assert.Equal(t, employee.StatusActive, admin.Status)
	})

	t.Run("negative missing password", func(t *testing.T) {
		gormDB := newSeedDB(t)
		sqlDB, _ := gormDB.DB()

		created, err := seedAdmin(ctx, sqlDB, gormDB, config.SeedConfig{AdminEmail: "admin@ems.local"})
		assert.Error(t, err)
		assert.False(t, created)
	})
}
