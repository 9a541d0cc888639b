package rbac_test

import (
	"context"
	"testing"

	"github.com/srihar-15/EMS/internal/audit"
	auditMock "github.com/srihar-15/EMS/internal/audit/mock"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/rbac"
	rbacerrors "github.com/srihar-15/EMS/internal/rbac/errors"
	"github.com/srihar-15/EMS/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (rbac.Service, *auditMock.MockLogger) {
	t.Helper()
	enforcer, err := infra.NewEnforcer(rbac.ModelText, rbac.Rules())
	assert.NoError(t, err)

	auditLogger := auditMock.NewMockLogger(gomock.NewController(t))
	return rbac.NewService(enforcer, auditLogger), auditLogger
}

func TestRBACService_Enforce(t *testing.T) {
	svc, _ := newTestService(t)

	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	hr := domain.Actor{ID: "hr-1", Role: domain.RoleHR}
	emp := domain.Actor{ID: "emp-1", Role: domain.RoleEmployee}

	cases := []struct {
		name    string
		req     domain.EnforceRequest
		allowed bool
	}{
		{"admin deletes employee", domain.EnforceRequest{Actor: admin, Resource: domain.ResourceEmployee, Action: domain.ActionDelete, TargetID: "emp-9"}, true},
		{"hr cannot delete employee", domain.EnforceRequest{Actor: hr, Resource: domain.ResourceEmployee, Action: domain.ActionDelete, TargetID: "emp-9"}, false},
		{"hr approves first level", domain.EnforceRequest{Actor: hr, Resource: domain.ResourceLeave, Action: domain.ActionApproveL1}, true},
		{"admin cannot approve first level", domain.EnforceRequest{Actor: admin, Resource: domain.ResourceLeave, Action: domain.ActionApproveL1}, false},
		{"hr cannot approve second level", domain.EnforceRequest{Actor: hr, Resource: domain.ResourceLeave, Action: domain.ActionApproveL2}, false},
		{"employee cannot reject", domain.EnforceRequest{Actor: emp, Resource: domain.ResourceLeave, Action: domain.ActionReject}, false},
		{"employee updates self", domain.EnforceRequest{Actor: emp, Resource: domain.ResourceEmployee, Action: domain.ActionUpdate, TargetID: "emp-1"}, true},
		{"employee cannot update other", domain.EnforceRequest{Actor: emp, Resource: domain.ResourceEmployee, Action: domain.ActionUpdate, TargetID: "emp-2"}, false},
		{"employee self needs a target", domain.EnforceRequest{Actor: emp, Resource: domain.ResourceEmployee, Action: domain.ActionUpdate}, false},
		{"employee reads own reviews", domain.EnforceRequest{Actor: emp, Resource: domain.ResourcePerformance, Action: domain.ActionRead, TargetID: "emp-1"}, true},
		{"employee cannot read audit", domain.EnforceRequest{Actor: emp, Resource: domain.ResourceAudit, Action: domain.ActionList}, false},
		{"hr cannot update budgets", domain.EnforceRequest{Actor: hr, Resource: domain.ResourceBudget, Action: domain.ActionUpdate}, false},
		{"unknown role denied", domain.EnforceRequest{Actor: domain.Actor{ID: "x", Role: "ROOT"}, Resource: domain.ResourceAudit, Action: domain.ActionList}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.req)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestRBACService_Authorize(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed writes no audit", func(t *testing.T) {
		svc, _ := newTestService(t)
		err := svc.Authorize(ctx, domain.EnforceRequest{
			Actor:    domain.Actor{ID: "hr-1", Role: domain.RoleHR},
			Resource: domain.ResourceLeave,
			Action:   domain.ActionApproveL1,
		})
		assert.NoError(t, err)
	})

	t.Run("denied writes exactly one security violation", func(t *testing.T) {
		svc, auditLogger := newTestService(t)
		actor := domain.Actor{ID: "emp-1", Role: domain.RoleEmployee}

		auditLogger.EXPECT().
			Log(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e audit.Entry) {
				assert.Equal(t, audit.ActionSecurityViolation, e.Action)
				assert.Equal(t, actor, e.Actor)
				assert.Equal(t, domain.ResourceEmployee, e.EntityType)
				assert.Equal(t, "emp-2", e.EntityID)
				assert.Equal(t, "employee:update", e.Details["permission"])
			}).
			Times(1)

		err := svc.Authorize(ctx, domain.EnforceRequest{
			Actor:    actor,
			Resource: domain.ResourceEmployee,
			Action:   domain.ActionUpdate,
			TargetID: "emp-2",
		})
		assert.ErrorIs(t, err, rbacerrors.ErrAccessDenied)
	})
}

func TestRBACService_Permissions(t *testing.T) {
	svc, _ := newTestService(t)

	resp := svc.Permissions(domain.RoleEmployee)
	assert.Equal(t, domain.RoleEmployee, resp.Role)

	keys := make([]string, 0, len(resp.Permissions))
	for _, p := range resp.Permissions {
		keys = append(keys, p.Key)
	}
	assert.ElementsMatch(t, []string{"leave:create", "leave:list", "attendance:create"}, keys)
	assert.Contains(t, resp.SelfAccess, "employee:update")
	assert.Contains(t, resp.SelfAccess, "notification:update")
}
