package repository

import (
	"time"

	"github.com/palmapernia/tp-django/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(todayStart, todayEnd, uniqueSince time.Time) (DashboardOverviewRow, error)
	GetTopPages(startAt, endAt time.Time, limit int) ([]DashboardPageRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	TotalUsers     int64
	TotalArticles  int64
	TotalPolls     int64
	TotalVisits    int64
	TodayVisits    int64
	UniqueVisitors int64
}

// DashboardPageRankingRow 页面访问排行原始行
type DashboardPageRankingRow struct {
	URL      string
	Visits   int64
	Visitors int64
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(todayStart, todayEnd, uniqueSince time.Time) (DashboardOverviewRow, error) {
	var result DashboardOverviewRow

	if err := r.db.Model(&models.User{}).Count(&result.TotalUsers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Article{}).Count(&result.TotalArticles).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Question{}).Count(&result.TotalPolls).Error; err != nil {
		return result, err
	}

	visits := NewVisitRepository(r.db)
	var err error
	if result.TotalVisits, err = visits.CountPageViews(); err != nil {
		return result, err
	}
	if result.TodayVisits, err = visits.CountPageViewsBetween(todayStart, todayEnd); err != nil {
		return result, err
	}
	if result.UniqueVisitors, err = visits.CountDistinctVisitorsSince(uniqueSince); err != nil {
		return result, err
	}
	return result, nil
}

// GetTopPages 区间内访问量最高的页面
func (r *GormDashboardRepository) GetTopPages(startAt, endAt time.Time, limit int) ([]DashboardPageRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardPageRankingRow
	if err := r.db.Model(&models.PageView{}).
		Select("url, COUNT(*) as visits, COUNT(DISTINCT visitor_id) as visitors").
		Where("timestamp >= ? AND timestamp < ?", startAt.UTC(), endAt.UTC()).
		Group("url").
		Order("visits DESC, url ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
