package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/pkg/cache"
	"github.com/hrms-platform/leave-service-go/internal/service/authz"
)

type DashboardServiceImpl struct {
	repo       leave.Repository
	cache      cache.Store
	authorizer *authz.Authorizer
	logger     *slog.Logger
}

func NewDashboardService(repo leave.Repository, store cache.Store, authorizer *authz.Authorizer, logger *slog.Logger) leave.DashboardService {
	return &DashboardServiceImpl{
		repo:       repo,
		cache:      store,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Summary implements leave.DashboardService. Counts are cached briefly;
// writes invalidate the cache so the dashboard stays close to live.
func (s *DashboardServiceImpl) Summary(ctx context.Context, actor identity.Principal) (leave.Summary, error) {
	if err := s.authorizer.RequireHR(actor, "dashboard_summary"); err != nil {
		return leave.Summary{}, err
	}

	var cached leave.Summary
	if s.cacheGet(ctx, cache.KeyDashboardSummary, &cached) {
		return cached, nil
	}

	summary, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return leave.Summary{}, fmt.Errorf("failed to count leave requests: %w", err)
	}

	s.cacheSet(ctx, cache.KeyDashboardSummary, summary, cache.TTLMedium)
	return summary, nil
}

// OnLeaveToday implements leave.DashboardService.
func (s *DashboardServiceImpl) OnLeaveToday(ctx context.Context, actor identity.Principal) (leave.OnLeaveToday, error) {
	if err := s.authorizer.RequireHR(actor, "dashboard_on_leave_today"); err != nil {
		return leave.OnLeaveToday{}, err
	}

	var cached leave.OnLeaveToday
	if s.cacheGet(ctx, cache.KeyTodayOnLeave, &cached) {
		return cached, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	count, err := s.repo.CountOnLeave(ctx, today)
	if err != nil {
		return leave.OnLeaveToday{}, fmt.Errorf("failed to count employees on leave: %w", err)
	}

	result := leave.OnLeaveToday{
		Date:  today.Format("2006-01-02"),
		Count: count,
	}
	s.cacheSet(ctx, cache.KeyTodayOnLeave, result, cache.TTLShort)
	return result, nil
}

func (s *DashboardServiceImpl) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *DashboardServiceImpl) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
