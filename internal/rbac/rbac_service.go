package rbac

import (
	"context"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/domain"
	rbacerrors "github.com/srihar-15/EMS/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	// Enforce evaluates the policy table without side effects.
	Enforce(req domain.EnforceRequest) (bool, error)
	// Authorize is the gate: a denial is audited once and returned as 403.
	Authorize(ctx context.Context, req domain.EnforceRequest) error
	Permissions(role domain.Role) domain.PermissionsResponse
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	audit    audit.Logger
	logger   *zap.Logger
}

func NewService(enforcer *casbin.SyncedEnforcer, auditLogger audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, audit: auditLogger, logger: l}
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	if !req.Actor.Role.Valid() || req.Actor.ID == "" {
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(
		string(req.Actor.Role),
		req.Resource,
		req.Action,
		req.Actor.ID,
		req.TargetID,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("actor_id", req.Actor.ID),
			zap.String("permission", req.Permission()),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("actor_id", req.Actor.ID),
		zap.String("role", string(req.Actor.Role)),
		zap.String("permission", req.Permission()),
		zap.String("target_id", req.TargetID),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Authorize(ctx context.Context, req domain.EnforceRequest) error {
	allowed, err := s.Enforce(req)
	if err != nil {
		return rbacerrors.ErrPolicyEvaluation
	}
	if allowed {
		return nil
	}

	s.logger.Warn("access denied",
		zap.String("actor_id", req.Actor.ID),
		zap.String("role", string(req.Actor.Role)),
		zap.String("permission", req.Permission()),
		zap.String("target_id", req.TargetID),
	)

	details := map[string]any{
		"permission": req.Permission(),
	}
	if req.TargetID != "" {
		details["target_id"] = req.TargetID
	}
	s.audit.Log(ctx, audit.Entry{
		Actor:      req.Actor,
		Action:     audit.ActionSecurityViolation,
		EntityType: req.Resource,
		EntityID:   req.TargetID,
		Details:    details,
	})

	return rbacerrors.ErrAccessDenied
}

func (s *service) Permissions(role domain.Role) domain.PermissionsResponse {
	resp := domain.PermissionsResponse{
		Role:        role,
		Permissions: []domain.PermissionResponse{},
		SelfAccess:  []string{},
	}
	for _, p := range Policies {
		switch p.Subject {
		case string(role):
			resp.Permissions = append(resp.Permissions, domain.PermissionResponse{
				Resource: p.Resource,
				Action:   p.Action,
				Key:      p.Resource + ":" + p.Action,
			})
		case SelfSubject:
			resp.SelfAccess = append(resp.SelfAccess, p.Resource+":"+p.Action)
		}
	}
	return resp
}
