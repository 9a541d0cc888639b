package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendanceerrors "github.com/srihar-15/EMS/internal/attendance/errors"
	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/notification"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 30
)

var attendanceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ems_attendance_events_total",
	Help: "Check-ins and check-outs by resulting status.",
}, []string{"event", "status"})

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, actor domain.Actor, now time.Time, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, actor domain.Actor, now time.Time, req CheckOutRequest) (AttendanceResponse, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]AttendanceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]AttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rules    Rules
	notifier notification.Notifier
	audit    audit.Logger
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	rules Rules,
	notifier notification.Notifier,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	return &service{db: db, repo: repo, rules: rules, notifier: notifier, audit: auditLogger, logger: l}
}

func (s *service) CheckIn(ctx context.Context, actor domain.Actor, now time.Time, req CheckInRequest) (AttendanceResponse, error) {
	workDate := s.rules.WorkDate(now)
	s.logger.Debug("check in requested",
		zap.String("employee_id", actor.ID),
		zap.String("date", workDate.Format(dateLayout)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	_, err = qtx.FindByEmployeeAndDate(ctx, actor.ID, workDate)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check in lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	row := &Attendance{
		ID:             uuid.NewString(),
		EmployeeID:     actor.ID,
		AttendanceDate: workDate,
		CheckIn:        now.UTC(),
		Status:         s.rules.CheckInStatus(now),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
	}
	if err := qtx.Create(ctx, row); err != nil {
		mapped := mapCreateError(err)
		if !errors.Is(mapped, attendanceerrors.ErrAlreadyCheckedIn) {
			s.logger.Error("check in persist failed", zap.Error(err))
		}
		return AttendanceResponse{}, mapped
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	attendanceEvents.WithLabelValues("check_in", row.Status).Inc()

	local := now.In(s.rules.Location)
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionCheckIn,
		EntityType: domain.ResourceAttendance,
		EntityID:   row.ID,
		Details: map[string]any{
			"date":   workDate.Format(dateLayout),
			"time":   local.Format("15:04"),
			"status": row.Status,
		},
	})
	s.notifier.Notify(ctx, actor.ID, notification.Message{
		Severity: notification.SeveritySuccess,
		Text:     fmt.Sprintf("Checked in at %s (%s).", local.Format("15:04"), row.Status),
		Link:     "/attendance",
	})

	s.logger.Info("check in success",
		zap.String("employee_id", actor.ID),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, actor domain.Actor, now time.Time, req CheckOutRequest) (AttendanceResponse, error) {
	workDate := s.rules.WorkDate(now)
	s.logger.Debug("check out requested",
		zap.String("employee_id", actor.ID),
		zap.String("date", workDate.Format(dateLayout)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByEmployeeAndDate(ctx, actor.ID, workDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoCheckInFound
		}
		s.logger.Error("check out lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	out := now.UTC()
	hours := s.rules.WorkedHours(row.CheckIn, out)
	status := s.rules.CheckOutStatus(row.Status, hours)

	ok, err := qtx.CheckOut(ctx, row.ID, out, hours, status, req.Notes)
	if err != nil {
		s.logger.Error("check out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	attendanceEvents.WithLabelValues("check_out", status).Inc()

	row.CheckOut = &out
	row.TotalHours = hours
	row.Status = status
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionCheckOut,
		EntityType: domain.ResourceAttendance,
		EntityID:   row.ID,
		Details: map[string]any{
			"date":        workDate.Format(dateLayout),
			"total_hours": hours.StringFixed(2),
			"status":      status,
		},
	})
	s.notifier.Notify(ctx, actor.ID, notification.Message{
		Severity: notification.SeverityInfo,
		Text:     fmt.Sprintf("Checked out after %s hours.", hours.StringFixed(2)),
		Link:     "/attendance",
	})

	s.logger.Info("check out success",
		zap.String("employee_id", actor.ID),
		zap.String("total_hours", hours.StringFixed(2)),
		zap.String("status", status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]AttendanceResponse, error) {
	return s.ListByEmployee(ctx, actor.ID, defaultLimit)
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]AttendanceResponse, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.repo.ListByEmployee(ctx, employeeID, limit)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		AttendanceDate: a.AttendanceDate.Format(dateLayout),
		CheckIn:        a.CheckIn.Format(time.RFC3339),
		Status:         a.Status,
		TotalHours:     a.TotalHours.StringFixed(2),
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Notes:          a.Notes,
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}
