package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/notification"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	WorkforceCacheKey = "insights:workforce"
	workforceCacheTTL = 10 * time.Minute
	defaultTimeout    = 20 * time.Second

	FallbackInsight = "<ul><li>Unable to generate AI insights at this moment. Please check API configuration.</li></ul>"
)

var analysisRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ems_workforce_insights_total",
		Help: "Workforce analyses served, by source.",
	},
	[]string{"source"},
)

//go:generate mockgen -source=insights_service.go -destination=mock/insights_service_mock.go -package=mock
type Service interface {
	Workforce(ctx context.Context, actor domain.Actor, refresh bool) (InsightResponse, error)
}

type service struct {
	repo     Repository
	analyst  Analyst
	notifier notification.Notifier
	rdb      *redis.Client
	sf       *singleflight.Group
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	analyst Analyst,
	notifier notification.Notifier,
	rdb *redis.Client,
	timeout time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("insights.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("insights.service")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &service{
		repo:     repo,
		analyst:  analyst,
		notifier: notifier,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		timeout:  timeout,
		now:      time.Now,
		logger:   l,
	}
}

// Workforce never fails because of the analyst: any analyst error yields the
// fallback text. Only AI answers are cached.
func (s *service) Workforce(ctx context.Context, actor domain.Actor, refresh bool) (InsightResponse, error) {
	if !refresh && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, WorkforceCacheKey).Result(); err == nil {
			var resp InsightResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(WorkforceCacheKey, func() (interface{}, error) {
		return s.analyze(ctx)
	})
	if err != nil {
		return InsightResponse{}, err
	}
	resp := v.(InsightResponse)

	s.notifyOutcome(ctx, actor, resp)
	return resp, nil
}

func (s *service) analyze(ctx context.Context) (InsightResponse, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.logger.Error("workforce snapshot failed", zap.Error(err))
		return InsightResponse{}, err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return InsightResponse{}, err
	}

	resp := InsightResponse{
		Source:      SourceAI,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Snapshot:    snap,
	}

	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.analyst.Analyze(actx, buildPrompt(data))
	if err != nil {
		s.logger.Warn("workforce analysis failed, serving fallback", zap.Error(err))
		resp.Insight = FallbackInsight
		resp.Source = SourceFallback
		analysisRuns.WithLabelValues(SourceFallback).Inc()
		return resp, nil
	}
	resp.Insight = text
	analysisRuns.WithLabelValues(SourceAI).Inc()

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, WorkforceCacheKey, string(payload), workforceCacheTTL).Err(); err != nil {
				s.logger.Warn("cache workforce insight failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *service) notifyOutcome(ctx context.Context, actor domain.Actor, resp InsightResponse) {
	if resp.Source != SourceAI {
		return
	}
	lower := strings.ToLower(resp.Insight)
	msg := notification.Message{
		Severity: notification.SeveritySuccess,
		Text:     "Workforce analysis completed successfully.",
		Link:     "/dashboard",
	}
	if strings.Contains(lower, "risk") || strings.Contains(lower, "burnout") {
		msg.Severity = notification.SeverityWarning
		msg.Text = "AI detected potential workforce risks. Review the analysis panel immediately."
	}
	s.notifier.Notify(ctx, actor.ID, msg)
}

func buildPrompt(data []byte) string {
	return fmt.Sprintf(`Analyze this workforce data and give 3 concise, actionable insights on:
1. Salary distribution equity.
2. Departmental balance.
3. Burnout risk based on leave patterns.

Data: %s`, data)
}
