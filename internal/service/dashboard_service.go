package service

import (
	"context"
	"time"

	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardTopPagesLimit = 10

// DashboardService 仪表盘服务
// 说明：聚合站点内容与访问数据，结果写入 Redis 缓存。
type DashboardService struct {
	repo   repository.DashboardRepository
	visits repository.VisitRepository
	cfg    config.DashboardConfig
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, visits repository.VisitRepository, cfg config.DashboardConfig, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{repo: repo, visits: visits, cfg: cfg, loc: loc, now: time.Now}
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Date             string              `json:"date"`
	Timezone         string              `json:"timezone"`
	TotalUsers       int64               `json:"total_users"`
	TotalPosts       int64               `json:"total_posts"`
	TotalPolls       int64               `json:"total_polls"`
	TotalVisits      int64               `json:"total_visits"`
	TodayVisits      int64               `json:"today_visits"`
	UniqueVisitors   int64               `json:"unique_visitors"`
	UniqueWindowDays int                 `json:"unique_window_days"`
	Today            *DailyVisitSnapshot `json:"today_aggregate"`
	TopPages         []DashboardTopPage  `json:"top_pages"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// DailyVisitSnapshot 当日汇总快照
type DailyVisitSnapshot struct {
	TotalVisits    int64  `json:"total_visits"`
	UniqueVisitors int64  `json:"unique_visitors"`
	UniqueRate     string `json:"unique_rate"`
}

// DashboardTopPage 页面访问排行
type DashboardTopPage struct {
	URL      string `json:"url"`
	Visits   int64  `json:"visits"`
	Visitors int64  `json:"visitors"`
}

// GetOverview 获取仪表盘总览，forceRefresh 时跳过缓存
func (s *DashboardService) GetOverview(ctx context.Context, forceRefresh bool) (*DashboardOverviewResponse, error) {
	if !forceRefresh {
		var cached DashboardOverviewResponse
		hit, err := cache.GetJSON(ctx, constants.CacheKeyDashboard, &cached)
		if err == nil && hit {
			return &cached, nil
		}
		if err != nil {
			logger.Warnw("dashboard_cache_read_failed", "error", err)
		}
	}
	return s.Refresh(ctx)
}

// Refresh 重新计算总览并写入缓存
func (s *DashboardService) Refresh(ctx context.Context) (*DashboardOverviewResponse, error) {
	now := s.now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	windowDays := s.cfg.UniqueWindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	uniqueSince := dayStart.AddDate(0, 0, -windowDays)

	overview, err := s.repo.GetOverview(dayStart, dayEnd, uniqueSince)
	if err != nil {
		return nil, err
	}
	pages, err := s.repo.GetTopPages(dayStart.AddDate(0, 0, -windowDays), dayEnd, dashboardTopPagesLimit)
	if err != nil {
		return nil, err
	}

	date := dayStart.Format(constants.VisitDateLayout)
	response := &DashboardOverviewResponse{
		Date:             date,
		Timezone:         s.loc.String(),
		TotalUsers:       overview.TotalUsers,
		TotalPosts:       overview.TotalArticles,
		TotalPolls:       overview.TotalPolls,
		TotalVisits:      overview.TotalVisits,
		TodayVisits:      overview.TodayVisits,
		UniqueVisitors:   overview.UniqueVisitors,
		UniqueWindowDays: windowDays,
		TopPages:         make([]DashboardTopPage, 0, len(pages)),
		GeneratedAt:      s.now().UTC(),
	}
	for _, page := range pages {
		response.TopPages = append(response.TopPages, DashboardTopPage{
			URL:      page.URL,
			Visits:   page.Visits,
			Visitors: page.Visitors,
		})
	}
	if s.visits != nil {
		day, err := s.visits.GetDay(date)
		if err != nil {
			return nil, err
		}
		if day != nil {
			response.Today = &DailyVisitSnapshot{
				TotalVisits:    day.TotalVisits,
				UniqueVisitors: day.UniqueVisitors,
				UniqueRate:     percentOf(day.UniqueVisitors, day.TotalVisits),
			}
		}
	}

	if err := cache.SetJSON(ctx, constants.CacheKeyDashboard, response, s.cacheTTL()); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "error", err)
	}
	return response, nil
}

// Invalidate 删除仪表盘缓存
func (s *DashboardService) Invalidate(ctx context.Context) error {
	return cache.Del(ctx, constants.CacheKeyDashboard)
}

func (s *DashboardService) cacheTTL() time.Duration {
	if s.cfg.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.cfg.CacheTTLSeconds) * time.Second
}

// percentOf 计算百分比并保留两位小数，分母为 0 时返回 0
func percentOf(part, total int64) string {
	if total <= 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2).
		StringFixed(2)
}
