package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/srihar-15/EMS/internal/shared/contextutil"
	"github.com/srihar-15/EMS/internal/shared/scope"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultPageSize = 50

// Logger records security-relevant actions. Log never fails the caller:
// persistence problems are logged and swallowed.
//
//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Logger interface {
	Log(ctx context.Context, entry Entry)
}

type Service interface {
	Logger
	List(ctx context.Context, req ListAuditRequest) ([]AuditLogResponse, int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func (s *service) Log(ctx context.Context, entry Entry) {
	details := []byte("{}")
	if len(entry.Details) > 0 {
		b, err := json.Marshal(entry.Details)
		if err != nil {
			s.logger.Warn("audit details not serializable",
				zap.String("action", entry.Action),
				zap.Error(err),
			)
		} else {
			details = b
		}
	}

	meta := contextutil.ExtractMetadata(ctx)
	row := &AuditLog{
		ID:         uuid.NewString(),
		ActorID:    entry.Actor.ID,
		ActorRole:  string(entry.Actor.Role),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    string(details),
		IPAddress:  meta.ClientIP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  s.now().UTC(),
	}

	s.logger.Info("audit event",
		zap.String("request_id", meta.RequestID),
		zap.String("actor_id", row.ActorID),
		zap.String("actor_role", row.ActorRole),
		zap.String("action", row.Action),
		zap.String("entity_type", row.EntityType),
		zap.String("entity_id", row.EntityID),
		zap.Any("details", entry.Details),
	)

	// request cancellation must not drop the entry
	if err := s.repo.Create(context.WithoutCancel(ctx), row); err != nil {
		s.logger.Warn("audit persist failed",
			zap.String("action", row.Action),
			zap.String("actor_id", row.ActorID),
			zap.Error(err),
		)
	}
}

func (s *service) List(ctx context.Context, req ListAuditRequest) ([]AuditLogResponse, int64, error) {
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	req.Page, req.PageSize = scope.Normalize(req.Page, req.PageSize)

	logs, total, err := s.repo.List(ctx, req)
	if err != nil {
		s.logger.Error("list audit logs failed", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, mapToResponse(l))
	}
	return resp, total, nil
}

func mapToResponse(l AuditLog) AuditLogResponse {
	details := json.RawMessage(l.Details)
	if len(details) == 0 {
		details = json.RawMessage("{}")
	}
	return AuditLogResponse{
		ID:         l.ID,
		ActorID:    l.ActorID,
		ActorRole:  l.ActorRole,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    details,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		CreatedAt:  l.CreatedAt,
	}
}
