package service

import (
	"context"

	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"
)

// ResetObserver 清空操作观察者（指标上报）
type ResetObserver interface {
	ObserveReset(confirmed bool)
}

// DashboardRefresher 清空后刷新仪表盘
type DashboardRefresher interface {
	EnqueueDashboardRefresh(reason string) error
}

// VisitResetResult 清空结果
type VisitResetResult struct {
	Confirmed       bool   `json:"confirmed"`
	PageViews       int64  `json:"page_views"`
	DailyAggregates int64  `json:"daily_aggregates"`
	MessageKey      string `json:"-"`
}

// VisitAdminService 访问数据管理服务
type VisitAdminService struct {
	repo      repository.VisitRepository
	dashboard *DashboardService
	refresher DashboardRefresher
	observer  ResetObserver
}

// NewVisitAdminService 创建访问数据管理服务
func NewVisitAdminService(repo repository.VisitRepository, dashboard *DashboardService, refresher DashboardRefresher, observer ResetObserver) *VisitAdminService {
	return &VisitAdminService{repo: repo, dashboard: dashboard, refresher: refresher, observer: observer}
}

// Counts 当前访问记录与每日汇总数量
func (s *VisitAdminService) Counts() (int64, int64, error) {
	views, err := s.repo.CountPageViews()
	if err != nil {
		return 0, 0, err
	}
	daily, err := s.repo.CountDailyVisits()
	if err != nil {
		return 0, 0, err
	}
	return views, daily, nil
}

// Reset 清空全部访问数据
// 未确认时只返回当前数量，不做任何修改；确认后在同一事务内删除并返回删除前数量。
func (s *VisitAdminService) Reset(ctx context.Context, confirm bool) (VisitResetResult, error) {
	if s.observer != nil {
		s.observer.ObserveReset(confirm)
	}
	views, daily, err := s.Counts()
	if err != nil {
		return VisitResetResult{}, err
	}
	result := VisitResetResult{Confirmed: confirm, PageViews: views, DailyAggregates: daily}
	if !confirm {
		result.MessageKey = "visit.reset_confirm_required"
		return result, nil
	}

	err = s.repo.Transaction(ctx, func(repo repository.VisitRepository) error {
		deletedViews, deletedDaily, err := repo.DeleteAll()
		if err != nil {
			return err
		}
		result.PageViews = deletedViews
		result.DailyAggregates = deletedDaily
		return nil
	})
	if err != nil {
		return VisitResetResult{}, err
	}
	result.MessageKey = "visit.reset_done"
	logger.Infow("visit_data_reset",
		"page_views", result.PageViews,
		"daily_aggregates", result.DailyAggregates,
	)

	if s.dashboard != nil {
		if err := s.dashboard.Invalidate(ctx); err != nil {
			logger.Warnw("dashboard_cache_invalidate_failed", "error", err)
		}
	}
	if s.refresher != nil {
		if err := s.refresher.EnqueueDashboardRefresh("visit_reset"); err != nil {
			logger.Warnw("dashboard_refresh_enqueue_failed", "error", err)
		}
	}
	return result, nil
}

// ListPageViews 访问记录分页
func (s *VisitAdminService) ListPageViews(filter repository.PageViewListFilter) ([]models.PageView, int64, error) {
	return s.repo.ListPageViews(filter)
}

// ListDailyVisits 每日汇总分页
func (s *VisitAdminService) ListDailyVisits(filter repository.DailyVisitListFilter) ([]models.DailyVisit, int64, error) {
	return s.repo.ListDailyVisits(filter)
}
