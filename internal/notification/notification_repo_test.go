package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/notification"

	"github.com/google/uuid"
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

	assert.NoError(t, db.AutoMigrate(&notification.Notification{}))
	return db
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := notification.NewRepository(newTestDB(t))

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var items []notification.Notification
	for i := 0; i < 25; i++ {
		items = append(items, notification.Notification{
			ID:          uuid.NewString(),
			RecipientID: "emp-1",
			Message:     "msg",
			Severity:    "info",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	items = append(items, notification.Notification{ID: uuid.NewString(), RecipientID: "emp-2", Message: "other", Severity: "info", CreatedAt: base})
	assert.NoError(t, repo.CreateBatch(ctx, items))

	t.Run("list is newest first and limited", func(t *testing.T) {
		got, err := repo.ListByRecipient(ctx, "emp-1", notification.ListLimit)
		assert.NoError(t, err)
		assert.Len(t, got, 20)
		assert.Equal(t, items[24].ID, got[0].ID)
	})

	t.Run("mark read only flips is_read", func(t *testing.T) {
		assert.NoError(t, repo.MarkRead(ctx, items[0].ID))
		got, err := repo.FindByID(ctx, items[0].ID)
		assert.NoError(t, err)
		assert.True(t, got.IsRead)
		assert.Equal(t, "msg", got.Message)
	})

	t.Run("clear removes only the recipient's rows", func(t *testing.T) {
		n, err := repo.DeleteByRecipient(ctx, "emp-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(25), n)

		left, err := repo.ListByRecipient(ctx, "emp-2", notification.ListLimit)
		assert.NoError(t, err)
		assert.Len(t, left, 1)
	})
}
