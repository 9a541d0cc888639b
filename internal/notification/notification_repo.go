package notification

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	CreateBatch(ctx context.Context, items []Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	DeleteByRecipient(ctx context.Context, recipientID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, items []Notification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	var items []Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *repository) DeleteByRecipient(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}
