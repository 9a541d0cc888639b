package notification

import (
	"context"
	"errors"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
	notificationerrors "github.com/srihar-15/EMS/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ListLimit = 20

// Notifier delivers in-app messages. Delivery is best-effort: failures are
// logged and never returned.
//
//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, recipientID string, msg Message)
	NotifyRole(ctx context.Context, role domain.Role, msg Message)
}

// Directory resolves role fan-out to active employee ids.
type Directory interface {
	ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, req domain.EnforceRequest) error
}

type Service interface {
	Notifier
	ListMine(ctx context.Context, actor domain.Actor) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
	ClearMine(ctx context.Context, actor domain.Actor) (int64, error)
}

type service struct {
	repo      Repository
	directory Directory
	authz     Authorizer
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, directory Directory, authz Authorizer, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, directory: directory, authz: authz, logger: l, now: time.Now}
}

func (s *service) Notify(ctx context.Context, recipientID string, msg Message) {
	if recipientID == "" {
		return
	}
	s.deliver(ctx, []string{recipientID}, msg)
}

func (s *service) NotifyRole(ctx context.Context, role domain.Role, msg Message) {
	ctx = context.WithoutCancel(ctx)
	ids, err := s.directory.ListIDsByRole(ctx, role)
	if err != nil {
		s.logger.Warn("notify role lookup failed", zap.String("role", string(role)), zap.Error(err))
		return
	}
	if len(ids) == 0 {
		s.logger.Debug("notify role has no recipients", zap.String("role", string(role)))
		return
	}
	s.deliver(ctx, ids, msg)
}

func (s *service) deliver(ctx context.Context, recipients []string, msg Message) {
	severity := msg.Severity
	if severity == "" {
		severity = SeverityInfo
	}

	now := s.now().UTC()
	items := make([]Notification, 0, len(recipients))
	for _, id := range recipients {
		items = append(items, Notification{
			ID:          uuid.NewString(),
			RecipientID: id,
			Message:     msg.Text,
			Severity:    string(severity),
			Link:        msg.Link,
			CreatedAt:   now,
		})
	}

	if err := s.repo.CreateBatch(context.WithoutCancel(ctx), items); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.Int("recipients", len(recipients)),
			zap.String("severity", string(severity)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("notification delivered", zap.Int("recipients", len(recipients)))
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]NotificationResponse, error) {
	items, err := s.repo.ListByRecipient(ctx, actor.ID, ListLimit)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("recipient_id", actor.ID), zap.Error(err))
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, mapToResponse(n))
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationerrors.ErrNotificationNotFound
		}
		return err
	}

	if err := s.authz.Authorize(ctx, domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceNotification,
		Action:   domain.ActionUpdate,
		TargetID: n.RecipientID,
	}); err != nil {
		return err
	}

	if n.IsRead {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		s.logger.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ClearMine(ctx context.Context, actor domain.Actor) (int64, error) {
	n, err := s.repo.DeleteByRecipient(ctx, actor.ID)
	if err != nil {
		s.logger.Error("clear notifications failed", zap.String("recipient_id", actor.ID), zap.Error(err))
		return 0, err
	}
	s.logger.Info("notifications cleared", zap.String("recipient_id", actor.ID), zap.Int64("count", n))
	return n, nil
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Severity:  n.Severity,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
