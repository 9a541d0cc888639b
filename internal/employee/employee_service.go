package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/auth"
	"github.com/srihar-15/EMS/internal/domain"
	employeeerrors "github.com/srihar-15/EMS/internal/employee/errors"
	"github.com/srihar-15/EMS/internal/events"
	"github.com/srihar-15/EMS/internal/messaging/kafka"
	"github.com/srihar-15/EMS/internal/notification"
	"github.com/srihar-15/EMS/internal/shared/contextutil"
	"github.com/srihar-15/EMS/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	optionsCacheTTL          = time.Hour
	dateLayout               = "2006-01-02"
)

func GetEmployeeOptionsKey(department string) string {
	if department == "" {
		department = "all"
	}
	return EmployeeOptionsKeyPrefix + department
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, req ListEmployeesRequest) ([]EmployeeResponse, int64, error)
	GetOptions(ctx context.Context, department string) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type service struct {
	db              *sql.DB
	repo            Repository
	users           auth.Repository
	counter         counter.Repository
	outbox          kafka.OutboxRepository
	rdb             *redis.Client
	sf              *singleflight.Group
	notifier        notification.Notifier
	audit           audit.Logger
	defaultPassword string
	logger          *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users auth.Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	notifier notification.Notifier,
	auditLogger audit.Logger,
	defaultPassword string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:              db,
		repo:            repo,
		users:           users,
		counter:         counter,
		outbox:          outboxRepo,
		rdb:             rdb,
		sf:              &singleflight.Group{},
		notifier:        notifier,
		audit:           auditLogger,
		defaultPassword: defaultPassword,
		logger:          l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	joinDate, err := time.Parse(dateLayout, req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}
	if req.Salary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
	}

	password := req.Password
	if password == "" {
		password = s.defaultPassword
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, counter.EmployeeNumber)
	if err != nil {
		s.logger.Error("create employee generate number failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:             uuid.NewString(),
		EmployeeNumber: fmt.Sprintf("EMP-%06d", nextVal),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Role:           domain.Role(req.Role),
		Department:     strings.TrimSpace(req.Department),
		Designation:    strings.TrimSpace(req.Designation),
		Salary:         req.Salary,
		JoinDate:       joinDate,
		Status:         StatusActive,
		LeaveBalance:   domain.DefaultLeaveBalance(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.users.WithTx(tx).Create(ctx, &auth.User{
		ID:         uuid.NewString(),
		EmployeeID: empl.ID,
		Email:      empl.Email,
		Password:   hashed,
		IsActive:   true,
	}); err != nil {
		s.logger.Error("create employee credential failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(rid, "employee", empl.ID, events.EmployeeCreatedType, events.EmployeeCreatedTopic,
			events.EmployeeCreatedEvent{
				EventType:      events.EmployeeCreatedType,
				RequestID:      rid,
				EmployeeID:     empl.ID,
				EmployeeNumber: empl.EmployeeNumber,
				Name:           empl.Name,
				Department:     empl.Department,
				Role:           string(empl.Role),
				CreatedBy:      actor.ID,
				OccurredAt:     time.Now().UTC(),
			})
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, empl.Department)
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionCreateEmployee,
		EntityType: domain.ResourceEmployee,
		EntityID:   empl.ID,
		Details: map[string]any{
			"employee_number": empl.EmployeeNumber,
			"role":            empl.Role,
			"department":      empl.Department,
		},
	})

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, req ListEmployeesRequest) ([]EmployeeResponse, int64, error) {
	s.logger.Debug("get all employees requested", zap.String("q", req.Query))
	empls, total, err := s.repo.FindAll(ctx, req)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(empls), total, nil
}

func (s *service) GetOptions(ctx context.Context, department string) ([]EmployeeOptionResponse, error) {
	cacheKey := GetEmployeeOptionsKey(department)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// collapse concurrent misses into one query
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindOptions(ctx, department)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeOptionResponse{
				ID:             e.ID,
				EmployeeNumber: e.EmployeeNumber,
				Name:           e.Name,
				Department:     e.Department,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("actor_id", actor.ID),
		zap.String("employee_id", id),
	)

	if req.IsEmpty() {
		return EmployeeResponse{}, employeeerrors.ErrNoChanges
	}
	if req.Salary != nil && req.Salary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
	}

	// Nobody edits privileged fields on their own record, whatever their role.
	if actor.ID == id && req.TouchesPrivileged() {
		s.logger.Warn("self update of privileged fields denied",
			zap.String("actor_id", actor.ID),
			zap.String("role", string(actor.Role)),
		)
		s.audit.Log(ctx, audit.Entry{
			Actor:      actor,
			Action:     audit.ActionSecurityViolation,
			EntityType: domain.ResourceEmployee,
			EntityID:   id,
			Details:    map[string]any{"fields": req.PrivilegedFields()},
		})
		return EmployeeResponse{}, employeeerrors.ErrSelfPrivilegedUpdate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	oldDepartment := empl.Department

	changes := applyChanges(empl, req)
	if err := qtx.Update(ctx, id, changes); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	utx := s.users.WithTx(tx)
	if req.Email != nil {
		if err := utx.UpdateEmailByEmployee(ctx, id, empl.Email); err != nil {
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}
	if req.Status != nil {
		if err := utx.SetActiveByEmployee(ctx, id, empl.Status == StatusActive); err != nil {
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, oldDepartment, empl.Department)

	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionUpdateEmployee,
		EntityType: domain.ResourceEmployee,
		EntityID:   id,
		Details:    map[string]any{"fields": fields},
	})

	if actor.ID != id {
		s.notifier.Notify(ctx, id, notification.Message{
			Severity: notification.SeverityInfo,
			Text:     fmt.Sprintf("Your profile was updated by %s.", strings.ToLower(string(actor.Role))),
			Link:     "/profile",
		})
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.users.WithTx(tx).SetActiveByEmployee(ctx, id, false); err != nil {
		s.logger.Error("delete employee disable credential failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, empl.Department)
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionDeleteEmployee,
		EntityType: domain.ResourceEmployee,
		EntityID:   id,
		Details:    map[string]any{"employee_number": empl.EmployeeNumber},
	})

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, departments ...string) {
	if s.rdb == nil {
		return
	}
	keys := []string{GetEmployeeOptionsKey("")}
	for _, d := range departments {
		if k := GetEmployeeOptionsKey(d); d != "" && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.Strings("keys", keys),
		)
	}
}

// applyChanges mutates empl in place and returns the column map to persist.
func applyChanges(empl *Employee, req UpdateEmployeeRequest) map[string]any {
	changes := map[string]any{}
	if req.Name != nil {
		empl.Name = strings.TrimSpace(*req.Name)
		changes["name"] = empl.Name
	}
	if req.Email != nil {
		empl.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		changes["email"] = empl.Email
	}
	if req.Role != nil {
		empl.Role = domain.Role(*req.Role)
		changes["role"] = string(empl.Role)
	}
	if req.Department != nil {
		empl.Department = strings.TrimSpace(*req.Department)
		changes["department"] = empl.Department
	}
	if req.Designation != nil {
		empl.Designation = strings.TrimSpace(*req.Designation)
		changes["designation"] = empl.Designation
	}
	if req.Salary != nil {
		empl.Salary = *req.Salary
		changes["salary"] = empl.Salary
	}
	if req.Status != nil {
		empl.Status = *req.Status
		changes["status"] = empl.Status
	}
	return changes
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             empl.ID,
		EmployeeNumber: empl.EmployeeNumber,
		Name:           empl.Name,
		Email:          empl.Email,
		Role:           string(empl.Role),
		Department:     empl.Department,
		Designation:    empl.Designation,
		Salary:         empl.Salary,
		JoinDate:       empl.JoinDate.Format(dateLayout),
		Status:         empl.Status,
		LeaveBalance:   empl.LeaveBalance,
		CreatedAt:      empl.CreatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
