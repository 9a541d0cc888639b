package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/events"
	leaveerrors "github.com/srihar-15/EMS/internal/leave/errors"
	"github.com/srihar-15/EMS/internal/messaging/kafka"
	"github.com/srihar-15/EMS/internal/notification"
	"github.com/srihar-15/EMS/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var leaveTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ems_leave_transitions_total",
	Help: "Leave requests moved into a status.",
}, []string{"status"})

// Authorizer is satisfied by rbac.Service.
type Authorizer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	Authorize(ctx context.Context, req domain.EnforceRequest) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, actor domain.Actor, req ListLeavesRequest) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ApproveFirstLevel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ApproveSecondLevel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id, reason string) (LeaveResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	authz    Authorizer
	notifier notification.Notifier
	audit    audit.Logger
	workflow Workflow
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	authz Authorizer,
	notifier notification.Notifier,
	auditLogger audit.Logger,
	cfg config.LeaveConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		authz:    authz,
		notifier: notifier,
		audit:    auditLogger,
		workflow: NewWorkflow(cfg.EscalationThresholdDays),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", actor.ID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if err := s.authz.Authorize(ctx, domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceLeave,
		Action:   domain.ActionCreate,
	}); err != nil {
		return LeaveResponse{}, err
	}

	leaveType, ok := domain.ParseLeaveType(req.LeaveType)
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	days := InclusiveDays(startDate, endDate)
	if days <= 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	balance, err := qtx.GetBalance(ctx, actor.ID, leaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		s.logger.Error("submit leave balance lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.workflow.CheckSubmit(days, balance); err != nil {
		s.logger.Warn("submit leave rejected",
			zap.String("employee_id", actor.ID),
			zap.Int("days", days),
			zap.Int("balance", balance),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.ID, startDate, endDate)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	// An overlap never blocks submission; reviewers see it on the request.
	if overlap {
		s.logger.Warn("submit leave overlaps an existing request",
			zap.String("employee_id", actor.ID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
	}

	l := &Leave{
		ID:            uuid.NewString(),
		EmployeeID:    actor.ID,
		LeaveType:     leaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     days,
		Reason:        req.Reason,
		Status:        StatusPending,
		ApprovalLevel: s.workflow.RequiredLevel(days),
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	leaveTransitions.WithLabelValues(string(StatusPending)).Inc()

	text := fmt.Sprintf("New %s leave request for %d day(s) awaits review.", leaveType, days)
	if overlap {
		text += " It overlaps another request of the same employee that was not rejected."
	}
	s.notifier.NotifyRole(ctx, domain.RoleHR, notification.Message{
		Severity: notification.SeverityInfo,
		Text:     text,
		Link:     "/leaves/" + l.ID,
	})
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionApplyLeave,
		EntityType: domain.ResourceLeave,
		EntityID:   l.ID,
		Details: map[string]any{
			"leave_type":     leaveType,
			"days":           days,
			"approval_level": l.ApprovalLevel,
			"overlaps":       overlap,
		},
	})

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID),
		zap.String("approval_level", string(l.ApprovalLevel)),
	)
	resp := mapToResponse(*l)
	resp.OverlapsExisting = overlap
	return resp, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, req ListLeavesRequest) ([]LeaveResponse, int64, error) {
	allowed, err := s.authz.Enforce(domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceLeave,
		Action:   domain.ActionReadAll,
	})
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		req.EmployeeID = actor.ID
	}

	leaves, total, err := s.repo.FindAll(ctx, req)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if l.EmployeeID != actor.ID {
		if err := s.authz.Authorize(ctx, domain.EnforceRequest{
			Actor:    actor,
			Resource: domain.ResourceLeave,
			Action:   domain.ActionReadAll,
			TargetID: l.EmployeeID,
		}); err != nil {
			return LeaveResponse{}, err
		}
	}
	return mapToResponse(*l), nil
}

func (s *service) ApproveFirstLevel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("approve leave first level requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID),
	)

	if err := s.authz.Authorize(ctx, domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceLeave,
		Action:   domain.ActionApproveL1,
	}); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := s.load(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	next, err := s.workflow.FirstLevel(l.Status, l.ApprovalLevel)
	if err != nil {
		s.logger.Warn("approve leave first level invalid",
			zap.String("leave_id", id),
			zap.String("status", string(l.Status)),
		)
		return LeaveResponse{}, err
	}
	if next == StatusApproved {
		return s.finalize(ctx, tx, qtx, actor, l)
	}

	now := s.now()
	ok, err := qtx.Transition(ctx, id, StatusPending, map[string]any{
		"status":         StatusPendingAdmin,
		"approval_level": LevelL2,
		"escalated_by":   actor.ID,
		"escalated_at":   now,
	})
	if err != nil {
		s.logger.Error("escalate leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, staleError(StatusPending)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("escalate leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	leaveTransitions.WithLabelValues(string(StatusPendingAdmin)).Inc()

	l.Status = StatusPendingAdmin
	l.ApprovalLevel = LevelL2
	l.EscalatedBy = &actor.ID
	l.EscalatedAt = &now

	s.notifier.NotifyRole(ctx, domain.RoleAdmin, notification.Message{
		Severity: notification.SeverityWarning,
		Text:     fmt.Sprintf("A %d-day %s leave request needs admin approval.", l.TotalDays, l.LeaveType),
		Link:     "/leaves/" + l.ID,
	})
	s.notifier.Notify(ctx, l.EmployeeID, notification.Message{
		Severity: notification.SeverityInfo,
		Text:     "Your leave request was approved by HR and escalated to an admin.",
		Link:     "/leaves/" + l.ID,
	})
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionEscalateLeave,
		EntityType: domain.ResourceLeave,
		EntityID:   l.ID,
		Details: map[string]any{
			"employee_id": l.EmployeeID,
			"days":        l.TotalDays,
		},
	})

	s.logger.Info("escalate leave success", zap.String("request_id", rid), zap.String("leave_id", id))
	return mapToResponse(*l), nil
}

func (s *service) ApproveSecondLevel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	s.logger.Debug("approve leave second level requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID),
	)

	if err := s.authz.Authorize(ctx, domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceLeave,
		Action:   domain.ActionApproveL2,
	}); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := s.load(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if _, err := s.workflow.SecondLevel(l.Status); err != nil {
		s.logger.Warn("approve leave second level invalid",
			zap.String("leave_id", id),
			zap.String("status", string(l.Status)),
		)
		return LeaveResponse{}, err
	}
	return s.finalize(ctx, tx, qtx, actor, l)
}

// finalize approves l from its current status, deducting the balance in the
// caller's transaction and committing it.
func (s *service) finalize(ctx context.Context, tx *sql.Tx, qtx Repository, actor domain.Actor, l *Leave) (LeaveResponse, error) {
	from := l.Status

	balance, err := qtx.GetBalance(ctx, l.EmployeeID, l.LeaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}
	if err := s.workflow.CheckFinalize(l.TotalDays, balance); err != nil {
		s.logger.Warn("finalize leave balance drifted",
			zap.String("leave_id", l.ID),
			zap.Int("days", l.TotalDays),
			zap.Int("balance", balance),
		)
		return LeaveResponse{}, err
	}

	now := s.now()
	ok, err := qtx.Transition(ctx, l.ID, from, map[string]any{
		"status":      StatusApproved,
		"approved_by": actor.ID,
		"approved_at": now,
	})
	if err != nil {
		s.logger.Error("finalize leave persist failed", zap.String("leave_id", l.ID), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, staleError(from)
	}

	remaining, ok, err := qtx.DeductBalance(ctx, l.EmployeeID, l.LeaveType, l.TotalDays)
	if err != nil {
		s.logger.Error("finalize leave deduct failed", zap.String("leave_id", l.ID), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrBalanceMismatch
	}

	l.Status = StatusApproved
	l.ApprovedBy = &actor.ID
	l.ApprovedAt = &now

	if err := s.publishDecision(ctx, tx, actor, l, ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("finalize leave commit failed", zap.String("leave_id", l.ID), zap.Error(err))
		return LeaveResponse{}, err
	}
	leaveTransitions.WithLabelValues(string(StatusApproved)).Inc()

	s.notifier.Notify(ctx, l.EmployeeID, notification.Message{
		Severity: notification.SeveritySuccess,
		Text:     fmt.Sprintf("Your %d-day %s leave was approved.", l.TotalDays, l.LeaveType),
		Link:     "/leaves/" + l.ID,
	})
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionApproveLeave,
		EntityType: domain.ResourceLeave,
		EntityID:   l.ID,
		Details: map[string]any{
			"employee_id":       l.EmployeeID,
			"leave_type":        l.LeaveType,
			"deducted":          l.TotalDays,
			"remaining_balance": remaining,
		},
	})

	s.logger.Info("finalize leave success",
		zap.String("leave_id", l.ID),
		zap.Int("deducted", l.TotalDays),
		zap.Int("remaining_balance", remaining),
	)
	return mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, id, reason string) (LeaveResponse, error) {
	s.logger.Debug("reject leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID),
	)

	if err := s.authz.Authorize(ctx, domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceLeave,
		Action:   domain.ActionReject,
	}); err != nil {
		return LeaveResponse{}, err
	}
	if reason == "" {
		reason = DefaultRejectionReason
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := s.load(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	from := l.Status
	if _, err := s.workflow.Reject(from); err != nil {
		return LeaveResponse{}, err
	}

	now := s.now()
	ok, err := qtx.Transition(ctx, id, from, map[string]any{
		"status":           StatusRejected,
		"rejected_by":      actor.ID,
		"rejected_at":      now,
		"rejection_reason": reason,
	})
	if err != nil {
		s.logger.Error("reject leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, staleError(from)
	}

	l.Status = StatusRejected
	l.RejectedBy = &actor.ID
	l.RejectedAt = &now
	l.RejectionReason = &reason

	if err := s.publishDecision(ctx, tx, actor, l, reason); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	leaveTransitions.WithLabelValues(string(StatusRejected)).Inc()

	s.notifier.Notify(ctx, l.EmployeeID, notification.Message{
		Severity: notification.SeverityError,
		Text:     fmt.Sprintf("Your %s leave request was rejected: %s", l.LeaveType, reason),
		Link:     "/leaves/" + l.ID,
	})
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionRejectLeave,
		EntityType: domain.ResourceLeave,
		EntityID:   l.ID,
		Details: map[string]any{
			"employee_id": l.EmployeeID,
			"from_status": from,
			"reason":      reason,
		},
	})

	s.logger.Info("reject leave success", zap.String("leave_id", id))
	return mapToResponse(*l), nil
}

func (s *service) load(ctx context.Context, repo Repository, id string) (*Leave, error) {
	l, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("load leave failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}
	return l, nil
}

func (s *service) publishDecision(ctx context.Context, tx *sql.Tx, actor domain.Actor, l *Leave, reason string) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, "leave", l.ID, events.LeaveDecidedType, events.LeaveDecidedTopic,
		events.LeaveDecidedEvent{
			EventType:  events.LeaveDecidedType,
			RequestID:  rid,
			LeaveID:    l.ID,
			EmployeeID: l.EmployeeID,
			LeaveType:  string(l.LeaveType),
			Status:     string(l.Status),
			Days:       l.TotalDays,
			DecidedBy:  actor.ID,
			Reason:     reason,
			OccurredAt: s.now(),
		})
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("leave decision outbox persist failed", zap.String("leave_id", l.ID), zap.Error(err))
		return err
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		EmployeeName:    l.EmployeeName,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          string(l.Status),
		ApprovalLevel:   string(l.ApprovalLevel),
		EscalatedBy:     l.EscalatedBy,
		EscalatedAt:     formatTime(l.EscalatedAt),
		ApprovedBy:      l.ApprovedBy,
		ApprovedAt:      formatTime(l.ApprovedAt),
		RejectedBy:      l.RejectedBy,
		RejectedAt:      formatTime(l.RejectedAt),
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
