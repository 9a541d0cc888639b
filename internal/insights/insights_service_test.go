package insights_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/insights"
	insightsMock "github.com/srihar-15/EMS/internal/insights/mock"
	"github.com/srihar-15/EMS/internal/notification"
	notificationMock "github.com/srihar-15/EMS/internal/notification/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var adminActor = domain.Actor{ID: "admin-1", UserID: "user-admin", Role: domain.RoleAdmin}

type serviceDeps struct {
	service  insights.Service
	repo     *insightsMock.MockRepository
	analyst  *insightsMock.MockAnalyst
	notifier *notificationMock.MockNotifier
	redis    redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	rdb, redisMock := redismock.NewClientMock()

	deps := &serviceDeps{
		repo:     insightsMock.NewMockRepository(ctrl),
		analyst:  insightsMock.NewMockAnalyst(ctrl),
		notifier: notificationMock.NewMockNotifier(ctrl),
		redis:    redisMock,
	}
	deps.service = insights.NewService(deps.repo, deps.analyst, deps.notifier, rdb, time.Second)
	return deps
}

func snapshot() insights.Snapshot {
	return insights.Snapshot{
		TotalEmployees: 3,
		Departments: []insights.DepartmentStat{
			{Department: "Engineering", Headcount: 2, AverageSalary: decimal.NewFromInt(5000)},
			{Department: "Sales", Headcount: 1, AverageSalary: decimal.NewFromInt(3000)},
		},
		PendingLeaves: 4,
	}
}

func severity(s notification.Severity) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		m, ok := x.(notification.Message)
		return ok && m.Severity == s
	})
}

func TestInsightsService_Workforce(t *testing.T) {
	ctx := context.Background()

	t.Run("analyses, caches and notifies success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redis.ExpectGet(insights.WorkforceCacheKey).RedisNil()
		deps.repo.EXPECT().Snapshot(ctx).Return(snapshot(), nil)
		deps.analyst.EXPECT().Analyze(gomock.Any(), gomock.Any()).DoAndReturn(
			func(actx context.Context, prompt string) (string, error) {
				_, hasDeadline := actx.Deadline()
				assert.True(t, hasDeadline)
				assert.Contains(t, prompt, `"total_employees":3`)
				assert.Contains(t, prompt, `"pending_leaves":4`)
				return "<ul><li>Salaries look even.</li></ul>", nil
			})
		deps.redis.Regexp().ExpectSet(insights.WorkforceCacheKey, `"source":"ai"`, 10*time.Minute).SetVal("OK")
		deps.notifier.EXPECT().Notify(ctx, adminActor.ID, severity(notification.SeveritySuccess))

		resp, err := deps.service.Workforce(ctx, adminActor, false)
		assert.NoError(t, err)
		assert.Equal(t, insights.SourceAI, resp.Source)
		assert.Equal(t, int64(3), resp.Snapshot.TotalEmployees)
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("risk wording raises a warning", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Snapshot(ctx).Return(snapshot(), nil)
		deps.analyst.EXPECT().Analyze(gomock.Any(), gomock.Any()).
			Return("<ul><li>Sales shows Burnout signals.</li></ul>", nil)
		deps.redis.Regexp().ExpectSet(insights.WorkforceCacheKey, `.*`, 10*time.Minute).SetVal("OK")
		deps.notifier.EXPECT().Notify(ctx, adminActor.ID, severity(notification.SeverityWarning))

		resp, err := deps.service.Workforce(ctx, adminActor, true)
		assert.NoError(t, err)
		assert.True(t, strings.Contains(resp.Insight, "Burnout"))
	})

	t.Run("cache hit skips the analyst", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal(insights.InsightResponse{Insight: "<ul><li>cached</li></ul>", Source: insights.SourceAI})
		deps.redis.ExpectGet(insights.WorkforceCacheKey).SetVal(string(cached))

		resp, err := deps.service.Workforce(ctx, adminActor, false)
		assert.NoError(t, err)
		assert.Equal(t, "<ul><li>cached</li></ul>", resp.Insight)
	})

	t.Run("analyst failure serves fallback without caching", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redis.ExpectGet(insights.WorkforceCacheKey).RedisNil()
		deps.repo.EXPECT().Snapshot(ctx).Return(snapshot(), nil)
		deps.analyst.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return("", errors.New("timeout"))

		resp, err := deps.service.Workforce(ctx, adminActor, false)
		assert.NoError(t, err)
		assert.Equal(t, insights.SourceFallback, resp.Source)
		assert.Equal(t, insights.FallbackInsight, resp.Insight)
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("negative snapshot failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Snapshot(ctx).Return(insights.Snapshot{}, errors.New("db down"))

		_, err := deps.service.Workforce(ctx, adminActor, true)
		assert.EqualError(t, err, "db down")
	})
}
