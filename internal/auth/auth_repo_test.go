package auth_test

import (
	"context"
	"testing"

	"github.com/srihar-15/EMS/internal/auth"
	"github.com/srihar-15/EMS/internal/domain"

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

	assert.NoError(t, db.AutoMigrate(&auth.User{}))
	assert.NoError(t, db.Exec(`CREATE TABLE employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		deleted_at DATETIME
	)`).Error)
	return db
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := auth.NewRepository(db)

	assert.NoError(t, db.Exec(`INSERT INTO employees (id, name, role) VALUES ('emp-1', 'Hana', 'hr')`).Error)
	assert.NoError(t, db.Exec(`INSERT INTO employees (id, name, role, deleted_at) VALUES ('emp-2', 'Gone', 'EMPLOYEE', CURRENT_TIMESTAMP)`).Error)

	assert.NoError(t, repo.Create(ctx, &auth.User{ID: "user-1", EmployeeID: "emp-1", Email: "hana@example.com", Password: "x", IsActive: true}))
	assert.NoError(t, repo.Create(ctx, &auth.User{ID: "user-2", EmployeeID: "emp-2", Email: "gone@example.com", Password: "x", IsActive: true}))

	t.Run("get by email resolves employee profile", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "  HANA@example.com ")
		assert.NoError(t, err)
		assert.Equal(t, "Hana", u.Name)
		assert.Equal(t, domain.RoleHR, u.Role)
	})

	t.Run("credential of deleted employee is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "user-2")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("deactivate by employee", func(t *testing.T) {
		assert.NoError(t, repo.SetActiveByEmployee(ctx, "emp-1", false))
		u, err := repo.GetByID(ctx, "user-1")
		assert.NoError(t, err)
		assert.False(t, u.IsActive)
	})

	t.Run("email follows the employee", func(t *testing.T) {
		assert.NoError(t, repo.UpdateEmailByEmployee(ctx, "emp-1", "Hana.New@example.com"))
		u, err := repo.GetByEmail(ctx, "hana.new@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := repo.Create(ctx, &auth.User{ID: "user-3", EmployeeID: "emp-3", Email: "gone@example.com", Password: "x", IsActive: true})
		assert.Error(t, err)
	})
}
