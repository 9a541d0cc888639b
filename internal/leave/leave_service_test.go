package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	auditMock "github.com/srihar-15/EMS/internal/audit/mock"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/events"
	"github.com/srihar-15/EMS/internal/leave"
	leaveerrors "github.com/srihar-15/EMS/internal/leave/errors"
	leaveMock "github.com/srihar-15/EMS/internal/leave/mock"
	"github.com/srihar-15/EMS/internal/messaging/kafka"
	kafkaMock "github.com/srihar-15/EMS/internal/messaging/kafka/mock"
	"github.com/srihar-15/EMS/internal/notification"
	notificationMock "github.com/srihar-15/EMS/internal/notification/mock"
	rbacerrors "github.com/srihar-15/EMS/internal/rbac/errors"
	"github.com/srihar-15/EMS/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var (
	employeeActor = domain.Actor{ID: "emp-1", UserID: "user-1", Role: domain.RoleEmployee}
	hrActor       = domain.Actor{ID: "hr-1", UserID: "user-hr", Role: domain.RoleHR}
	adminActor    = domain.Actor{ID: "admin-1", UserID: "user-admin", Role: domain.RoleAdmin}
)

type serviceDeps struct {
	sqlMock  sqlmock.Sqlmock
	service  leave.Service
	repo     *leaveMock.MockRepository
	outbox   *kafkaMock.MockOutboxRepository
	authz    *leaveMock.MockAuthorizer
	notifier *notificationMock.MockNotifier
	audit    *auditMock.MockLogger
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := &serviceDeps{
		sqlMock:  sqlMock,
		repo:     leaveMock.NewMockRepository(ctrl),
		outbox:   kafkaMock.NewMockOutboxRepository(ctrl),
		authz:    leaveMock.NewMockAuthorizer(ctrl),
		notifier: notificationMock.NewMockNotifier(ctrl),
		audit:    auditMock.NewMockLogger(ctrl),
	}
	deps.service = leave.NewService(db, deps.repo, deps.outbox, deps.authz, deps.notifier, deps.audit,
		config.LeaveConfig{EscalationThresholdDays: 3})
	return deps
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func allow(deps *serviceDeps, actor domain.Actor, action string) {
	deps.authz.EXPECT().Authorize(gomock.Any(), domain.EnforceRequest{
		Actor:    actor,
		Resource: domain.ResourceLeave,
		Action:   action,
	}).Return(nil)
}

func auditAction(action string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		e, ok := x.(audit.Entry)
		return ok && e.Action == action
	})
}

func severity(s notification.Severity) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		m, ok := x.(notification.Message)
		return ok && m.Severity == s
	})
}

func pendingLeave(days int) *leave.Leave {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &leave.Leave{
		ID:            "leave-1",
		EmployeeID:    employeeActor.ID,
		LeaveType:     domain.LeaveVacation,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, days-1),
		TotalDays:     days,
		Status:        leave.StatusPending,
		ApprovalLevel: leave.NewWorkflow(3).RequiredLevel(days),
	}
}

func TestLeaveService_Submit(t *testing.T) {
	req := leave.SubmitLeaveRequest{LeaveType: "vacation", StartDate: "2026-03-02", EndDate: "2026-03-03", Reason: "family"}

	t.Run("short request is tagged L1 and HR is notified", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, employeeActor, domain.ActionCreate)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().HasOverlappingPeriod(ctx, "emp-1", date("2026-03-02"), date("2026-03-03")).Return(false, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, l *leave.Leave) error {
			assert.Equal(t, 2, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, leave.LevelL1, l.ApprovalLevel)
			return nil
		})
		deps.notifier.EXPECT().NotifyRole(ctx, domain.RoleHR, severity(notification.SeverityInfo))
		deps.audit.EXPECT().Log(ctx, auditAction(audit.ActionApplyLeave))

		resp, err := deps.service.Submit(ctx, employeeActor, req)
		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "L1", resp.ApprovalLevel)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("long request is tagged L2", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		long := req
		long.EndDate = "2026-03-06"

		allow(deps, employeeActor, domain.ActionCreate)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().HasOverlappingPeriod(ctx, "emp-1", gomock.Any(), gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().NotifyRole(ctx, domain.RoleHR, gomock.Any())
		deps.audit.EXPECT().Log(ctx, gomock.Any())

		resp, err := deps.service.Submit(ctx, employeeActor, long)
		assert.NoError(t, err)
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, "L2", resp.ApprovalLevel)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupServiceTest(t)
		bad := req
		bad.EndDate = "2026-03-01"

		allow(deps, employeeActor, domain.ActionCreate)

		_, err := deps.service.Submit(context.Background(), employeeActor, bad)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupServiceTest(t)
		bad := req
		bad.LeaveType = "sabbatical"

		allow(deps, employeeActor, domain.ActionCreate)

		_, err := deps.service.Submit(context.Background(), employeeActor, bad)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupServiceTest(t)
		bad := req
		bad.StartDate = "02/03/2026"

		allow(deps, employeeActor, domain.ActionCreate)

		_, err := deps.service.Submit(context.Background(), employeeActor, bad)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, employeeActor, domain.ActionCreate)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(1, nil)

		_, err := deps.service.Submit(ctx, employeeActor, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlapping request is still accepted and flagged", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, employeeActor, domain.ActionCreate)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(2, nil)
		deps.repo.EXPECT().HasOverlappingPeriod(ctx, "emp-1", gomock.Any(), gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().
			NotifyRole(ctx, domain.RoleHR, gomock.Any()).
			Do(func(_ context.Context, _ domain.Role, msg notification.Message) {
				assert.Contains(t, msg.Text, "overlaps")
			})
		deps.audit.EXPECT().
			Log(ctx, gomock.Any()).
			Do(func(_ context.Context, e audit.Entry) {
				assert.Equal(t, true, e.Details["overlaps"])
			})

		resp, err := deps.service.Submit(ctx, employeeActor, req)
		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.True(t, resp.OverlapsExisting)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee missing", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, employeeActor, domain.ActionCreate)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(0, gorm.ErrRecordNotFound)

		_, err := deps.service.Submit(ctx, employeeActor, req)
		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
	})
}

func TestLeaveService_ApproveFirstLevel(t *testing.T) {
	t.Run("short request is finalized directly", func(t *testing.T) {
		deps := setupServiceTest(t)
		rid := "REQ-LEAVE-1"
		ctx := contextutil.WithRequestID(context.Background(), rid)

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(2), nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ leave.Status, changes map[string]any) (bool, error) {
				assert.Equal(t, leave.StatusApproved, changes["status"])
				assert.Equal(t, "hr-1", changes["approved_by"])
				return true, nil
			})
		deps.repo.EXPECT().DeductBalance(ctx, "emp-1", domain.LeaveVacation, 2).Return(18, true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Cond(func(x any) bool {
			ev, ok := x.(kafka.OutboxEvent)
			if !ok || ev.Topic != events.LeaveDecidedTopic || ev.RequestID != rid {
				return false
			}
			var payload events.LeaveDecidedEvent
			return json.Unmarshal(ev.Payload, &payload) == nil && payload.Status == "APPROVED" && payload.Days == 2
		})).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, "emp-1", severity(notification.SeveritySuccess))
		deps.audit.EXPECT().Log(ctx, gomock.Cond(func(x any) bool {
			e := x.(audit.Entry)
			return e.Action == audit.ActionApproveLeave &&
				e.Details["deducted"] == 2 && e.Details["remaining_balance"] == 18
		}))

		resp, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "hr-1", *resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("long request escalates to admin", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(5), nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ leave.Status, changes map[string]any) (bool, error) {
				assert.Equal(t, leave.StatusPendingAdmin, changes["status"])
				assert.Equal(t, "hr-1", changes["escalated_by"])
				return true, nil
			})
		deps.notifier.EXPECT().NotifyRole(ctx, domain.RoleAdmin, severity(notification.SeverityWarning))
		deps.notifier.EXPECT().Notify(ctx, "emp-1", severity(notification.SeverityInfo))
		deps.audit.EXPECT().Log(ctx, auditAction(audit.ActionEscalateLeave))

		resp, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "PENDING_ADMIN", resp.Status)
		assert.Equal(t, "hr-1", *resp.EscalatedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("escalation follows the level stored at submission", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		// Submitted under a lower threshold: two days but tagged L2.
		stored := pendingLeave(2)
		stored.ApprovalLevel = leave.LevelL2

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(stored, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ leave.Status, changes map[string]any) (bool, error) {
				assert.Equal(t, leave.StatusPendingAdmin, changes["status"])
				return true, nil
			})
		deps.notifier.EXPECT().NotifyRole(ctx, domain.RoleAdmin, severity(notification.SeverityWarning))
		deps.notifier.EXPECT().Notify(ctx, "emp-1", severity(notification.SeverityInfo))
		deps.audit.EXPECT().Log(ctx, auditAction(audit.ActionEscalateLeave))

		resp, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "PENDING_ADMIN", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("request tagged L1 is finalized even above the current threshold", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		stored := pendingLeave(5)
		stored.ApprovalLevel = leave.LevelL1

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(stored, nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ leave.Status, changes map[string]any) (bool, error) {
				assert.Equal(t, leave.StatusApproved, changes["status"])
				return true, nil
			})
		deps.repo.EXPECT().DeductBalance(ctx, "emp-1", domain.LeaveVacation, 5).Return(15, true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, "emp-1", severity(notification.SeveritySuccess))
		deps.audit.EXPECT().Log(ctx, auditAction(audit.ActionApproveLeave))

		resp, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee role is denied before any read", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(rbacerrors.ErrAccessDenied)

		_, err := deps.service.ApproveFirstLevel(context.Background(), employeeActor, "leave-1")
		assert.ErrorIs(t, err, rbacerrors.ErrAccessDenied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		approved := pendingLeave(2)
		approved.Status = leave.StatusApproved

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(approved, nil)

		_, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
	})

	t.Run("negative lost race on status write", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(2), nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).Return(false, nil)

		_, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative conditional deduction fails", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(2), nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(2, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().DeductBalance(ctx, "emp-1", domain.LeaveVacation, 2).Return(0, false, nil)

		_, err := deps.service.ApproveFirstLevel(ctx, hrActor, "leave-1")
		assert.ErrorIs(t, err, leaveerrors.ErrBalanceMismatch)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, hrActor, domain.ActionApproveL1)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ApproveFirstLevel(ctx, hrActor, "ghost")
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_ApproveSecondLevel(t *testing.T) {
	escalated := func() *leave.Leave {
		l := pendingLeave(5)
		l.Status = leave.StatusPendingAdmin
		return l
	}

	t.Run("finalizes an escalated request", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, adminActor, domain.ActionApproveL2)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(escalated(), nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPendingAdmin, gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().DeductBalance(ctx, "emp-1", domain.LeaveVacation, 5).Return(15, true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, "emp-1", severity(notification.SeveritySuccess))
		deps.audit.EXPECT().Log(ctx, auditAction(audit.ActionApproveLeave))

		resp, err := deps.service.ApproveSecondLevel(ctx, adminActor, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
	})

	t.Run("negative still pending first level", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, adminActor, domain.ActionApproveL2)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(5), nil)

		_, err := deps.service.ApproveSecondLevel(ctx, adminActor, "leave-1")
		assert.ErrorIs(t, err, leaveerrors.ErrNotEscalated)
	})

	t.Run("negative balance drifted since submission", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, adminActor, domain.ActionApproveL2)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(escalated(), nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(4, nil)

		_, err := deps.service.ApproveSecondLevel(ctx, adminActor, "leave-1")
		assert.ErrorIs(t, err, leaveerrors.ErrBalanceMismatch)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost race reports not escalated", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, adminActor, domain.ActionApproveL2)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(escalated(), nil)
		deps.repo.EXPECT().GetBalance(ctx, "emp-1", domain.LeaveVacation).Return(20, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPendingAdmin, gomock.Any()).Return(false, nil)

		_, err := deps.service.ApproveSecondLevel(ctx, adminActor, "leave-1")
		assert.ErrorIs(t, err, leaveerrors.ErrNotEscalated)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	t.Run("empty reason falls back to default", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, hrActor, domain.ActionReject)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(2), nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ leave.Status, changes map[string]any) (bool, error) {
				assert.Equal(t, leave.DefaultRejectionReason, changes["rejection_reason"])
				return true, nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, "emp-1", severity(notification.SeverityError))
		deps.audit.EXPECT().Log(ctx, auditAction(audit.ActionRejectLeave))

		resp, err := deps.service.Reject(ctx, hrActor, "leave-1", "")
		assert.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Equal(t, leave.DefaultRejectionReason, *resp.RejectionReason)
	})

	t.Run("admin rejects an escalated request", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		l := pendingLeave(5)
		l.Status = leave.StatusPendingAdmin

		allow(deps, adminActor, domain.ActionReject)
		expectTx(deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(l, nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPendingAdmin, gomock.Any()).Return(true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, "emp-1", gomock.Any())
		deps.audit.EXPECT().Log(ctx, gomock.Any())

		resp, err := deps.service.Reject(ctx, adminActor, "leave-1", "peak season")
		assert.NoError(t, err)
		assert.Equal(t, "peak season", *resp.RejectionReason)
	})

	t.Run("negative approved request is immutable", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		l := pendingLeave(2)
		l.Status = leave.StatusApproved

		allow(deps, hrActor, domain.ActionReject)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(l, nil)

		_, err := deps.service.Reject(ctx, hrActor, "leave-1", "late")
		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
	})

	t.Run("negative outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		allow(deps, hrActor, domain.ActionReject)
		expectTx(deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "leave-1").Return(pendingLeave(2), nil)
		deps.repo.EXPECT().Transition(ctx, "leave-1", leave.StatusPending, gomock.Any()).Return(true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("disk full"))

		_, err := deps.service.Reject(ctx, hrActor, "leave-1", "")
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_ListAndGet(t *testing.T) {
	t.Run("employee listing is scoped to self", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.authz.EXPECT().Enforce(gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().FindAll(ctx, leave.ListLeavesRequest{EmployeeID: "emp-1", Page: 1, PageSize: 10}).
			Return([]leave.Leave{*pendingLeave(2)}, int64(1), nil)

		resp, total, err := deps.service.List(ctx, employeeActor, leave.ListLeavesRequest{EmployeeID: "emp-9", Page: 1, PageSize: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, resp, 1)
	})

	t.Run("hr listing keeps filters", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		filter := leave.ListLeavesRequest{Status: "PENDING", Page: 1, PageSize: 10}

		deps.authz.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().FindAll(ctx, filter).Return(nil, int64(0), nil)

		_, _, err := deps.service.List(ctx, hrActor, filter)
		assert.NoError(t, err)
	})

	t.Run("owner reads own request without a gate check", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), "leave-1").Return(pendingLeave(2), nil)

		resp, err := deps.service.GetByID(context.Background(), employeeActor, "leave-1")
		assert.NoError(t, err)
		assert.Equal(t, "leave-1", resp.ID)
	})

	t.Run("negative other employee is denied", func(t *testing.T) {
		deps := setupServiceTest(t)
		other := domain.Actor{ID: "emp-2", Role: domain.RoleEmployee}

		deps.repo.EXPECT().FindByID(gomock.Any(), "leave-1").Return(pendingLeave(2), nil)
		deps.authz.EXPECT().Authorize(gomock.Any(), domain.EnforceRequest{
			Actor: other, Resource: domain.ResourceLeave, Action: domain.ActionReadAll, TargetID: "emp-1",
		}).Return(rbacerrors.ErrAccessDenied)

		_, err := deps.service.GetByID(context.Background(), other, "leave-1")
		assert.ErrorIs(t, err, rbacerrors.ErrAccessDenied)
	})
}
