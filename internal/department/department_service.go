package department

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	departmenterrors "github.com/srihar-15/EMS/internal/department/errors"
	"github.com/srihar-15/EMS/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]BudgetResponse, error)
	Update(ctx context.Context, actor domain.Actor, department string, req UpdateBudgetRequest) (BudgetResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	audit  audit.Logger
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditLogger audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, audit: auditLogger, now: time.Now, logger: l}
}

// List reports every budgeted department plus any department that has active
// employees but no budget yet.
func (s *service) List(ctx context.Context) ([]BudgetResponse, error) {
	budgets, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list budgets failed", zap.Error(err))
		return nil, err
	}
	spend, err := s.repo.Spend(ctx)
	if err != nil {
		s.logger.Error("department spend failed", zap.Error(err))
		return nil, err
	}

	byDept := make(map[string]DepartmentSpend, len(spend))
	for _, sp := range spend {
		byDept[sp.Department] = sp
	}

	resp := make([]BudgetResponse, 0, len(budgets)+len(spend))
	seen := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		seen[b.Department] = true
		resp = append(resp, mapToResponse(b, byDept[b.Department]))
	}
	for _, sp := range spend {
		if seen[sp.Department] {
			continue
		}
		resp = append(resp, mapToResponse(DepartmentBudget{
			Department: sp.Department,
			FiscalYear: s.now().Year(),
		}, sp))
	}

	sort.Slice(resp, func(i, j int) bool { return resp[i].Department < resp[j].Department })
	return resp, nil
}

func (s *service) Update(
	ctx context.Context,
	actor domain.Actor,
	department string,
	req UpdateBudgetRequest,
) (BudgetResponse, error) {
	department = strings.TrimSpace(department)
	if department == "" || len(department) > 100 {
		return BudgetResponse{}, departmenterrors.ErrInvalidDepartment
	}
	if req.Allocated == nil || req.Allocated.IsNegative() {
		return BudgetResponse{}, departmenterrors.ErrNegativeAllocation
	}
	fiscalYear := req.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = s.now().Year()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update budget begin tx failed", zap.Error(err))
		return BudgetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	previous := decimal.Zero
	current, err := qtx.FindByDepartment(ctx, department)
	switch {
	case err == nil:
		previous = current.Allocated
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("update budget lookup failed", zap.Error(err))
		return BudgetResponse{}, err
	}

	updatedBy := actor.ID
	budget := &DepartmentBudget{
		Department: department,
		Allocated:  req.Allocated.Round(2),
		FiscalYear: fiscalYear,
		UpdatedBy:  &updatedBy,
		UpdatedAt:  s.now(),
	}
	if err := qtx.Upsert(ctx, budget); err != nil {
		s.logger.Error("update budget persist failed", zap.Error(err))
		return BudgetResponse{}, err
	}

	spend, err := qtx.Spend(ctx)
	if err != nil {
		s.logger.Error("department spend failed", zap.Error(err))
		return BudgetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update budget commit failed", zap.Error(err))
		return BudgetResponse{}, err
	}

	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionUpdateBudget,
		EntityType: domain.ResourceBudget,
		EntityID:   department,
		Details: map[string]any{
			"previous":    previous.StringFixed(2),
			"allocated":   budget.Allocated.StringFixed(2),
			"fiscal_year": fiscalYear,
		},
	})

	s.logger.Info("budget updated",
		zap.String("department", department),
		zap.String("allocated", budget.Allocated.StringFixed(2)),
	)

	var deptSpend DepartmentSpend
	for _, sp := range spend {
		if sp.Department == department {
			deptSpend = sp
			break
		}
	}
	return mapToResponse(*budget, deptSpend), nil
}

func mapToResponse(b DepartmentBudget, sp DepartmentSpend) BudgetResponse {
	utilization := decimal.Zero
	switch {
	case b.Allocated.IsPositive():
		utilization = decimal.Min(hundred, sp.Spend.Mul(hundred).Div(b.Allocated))
	case sp.Spend.IsPositive():
		utilization = hundred
	}

	resp := BudgetResponse{
		Department:  b.Department,
		Allocated:   b.Allocated.StringFixed(2),
		Spend:       sp.Spend.StringFixed(2),
		Remaining:   b.Allocated.Sub(sp.Spend).StringFixed(2),
		Utilization: utilization.StringFixed(1),
		Headcount:   sp.Headcount,
		FiscalYear:  b.FiscalYear,
		UpdatedBy:   b.UpdatedBy,
	}
	if !b.UpdatedAt.IsZero() {
		resp.UpdatedAt = b.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
