package performance

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/notification"
	performanceerrors "github.com/srihar-15/EMS/internal/performance/errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var reviewsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ems_performance_reviews_total",
		Help: "Performance reviews created, by rating.",
	},
	[]string{"rating"},
)

//go:generate mockgen -source=performance_service.go -destination=mock/performance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateReviewRequest) (ReviewResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]ReviewResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	notifier notification.Notifier
	audit    audit.Logger
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	notifier notification.Notifier,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("performance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("performance.service")
	}
	return &service{db: db, repo: repo, notifier: notifier, audit: auditLogger, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateReviewRequest) (ReviewResponse, error) {
	if req.EmployeeID == actor.ID {
		return ReviewResponse{}, performanceerrors.ErrSelfReview
	}

	reviewDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.ReviewDate != "" {
		d, err := time.Parse(dateLayout, req.ReviewDate)
		if err != nil {
			return ReviewResponse{}, performanceerrors.ErrInvalidReviewDate
		}
		reviewDate = d
	}

	goals := make([]Goal, len(req.Goals))
	for i, g := range req.Goals {
		status := g.Status
		if status == "" {
			status = GoalPending
		}
		goals[i] = Goal{Description: g.Description, Status: status}
	}
	encoded, err := json.Marshal(goals)
	if err != nil {
		return ReviewResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create review begin tx failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("create review employee lookup failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	if !exists {
		return ReviewResponse{}, performanceerrors.ErrEmployeeNotFound
	}

	review := &PerformanceReview{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		ReviewerID: actor.ID,
		Rating:     req.Rating,
		Feedback:   req.Feedback,
		Goals:      string(encoded),
		Period:     req.Period,
		ReviewDate: reviewDate,
	}
	if err := qtx.Create(ctx, review); err != nil {
		s.logger.Error("create review persist failed", zap.Error(err))
		return ReviewResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create review commit failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	reviewsCreated.WithLabelValues(strconv.Itoa(review.Rating)).Inc()

	s.notifier.Notify(ctx, review.EmployeeID, notification.Message{
		Severity: notification.SeverityInfo,
		Text:     "You have received a new performance review.",
		Link:     "/performance",
	})
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     audit.ActionCreateReview,
		EntityType: domain.ResourcePerformance,
		EntityID:   review.ID,
		Details: map[string]any{
			"employee_id": review.EmployeeID,
			"rating":      review.Rating,
			"period":      review.Period,
		},
	})

	s.logger.Info("performance review created",
		zap.String("review_id", review.ID),
		zap.String("employee_id", review.EmployeeID),
		zap.Int("rating", review.Rating),
	)
	return mapToResponse(*review), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]ReviewResponse, error) {
	reviews, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list reviews failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func mapToResponse(r PerformanceReview) ReviewResponse {
	goals := []Goal{}
	if r.Goals != "" {
		// stored by Create; a malformed row still lists with no goals
		_ = json.Unmarshal([]byte(r.Goals), &goals)
	}
	return ReviewResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Feedback:     r.Feedback,
		Goals:        goals,
		Period:       r.Period,
		ReviewDate:   r.ReviewDate.Format(dateLayout),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
