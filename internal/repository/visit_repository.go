package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/palmapernia/tp-django/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVisitStoreUnavailable 仓库未绑定数据库
var ErrVisitStoreUnavailable = errors.New("visit store unavailable")

// ErrDailyVisitMissing 自增时当日汇总行不存在（通常是被并发清空）
var ErrDailyVisitMissing = errors.New("daily visit row missing")

// VisitRepository 访问统计数据访问接口
type VisitRepository interface {
	WithTx(tx *gorm.DB) VisitRepository
	Transaction(ctx context.Context, fn func(repo VisitRepository) error) error
	ExistsByVisitorID(visitorID string) (bool, error)
	CreatePageView(view *models.PageView) error
	EnsureDay(date string) error
	IncrementDay(date string, total, unique int64) error
	GetDay(date string) (*models.DailyVisit, error)
	CountPageViews() (int64, error)
	CountDailyVisits() (int64, error)
	CountPageViewsBetween(startAt, endAt time.Time) (int64, error)
	CountDistinctVisitorsSince(since time.Time) (int64, error)
	ListPageViews(filter PageViewListFilter) ([]models.PageView, int64, error)
	ListDailyVisits(filter DailyVisitListFilter) ([]models.DailyVisit, int64, error)
	DeleteAll() (int64, int64, error)
	ClearUser(userID uint) error
}

// GormVisitRepository GORM 实现
type GormVisitRepository struct {
	db *gorm.DB
}

// NewVisitRepository 创建访问统计仓库
func NewVisitRepository(db *gorm.DB) *GormVisitRepository {
	return &GormVisitRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVisitRepository) WithTx(tx *gorm.DB) VisitRepository {
	if tx == nil {
		return r
	}
	return &GormVisitRepository{db: tx}
}

// Transaction 在仓库所持数据库上开启事务
func (r *GormVisitRepository) Transaction(ctx context.Context, fn func(repo VisitRepository) error) error {
	if r == nil || r.db == nil {
		return ErrVisitStoreUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormVisitRepository{db: tx})
	})
}

// ExistsByVisitorID 判断访客标识是否出现过（不限日期）
func (r *GormVisitRepository) ExistsByVisitorID(visitorID string) (bool, error) {
	var ids []uint
	if err := r.db.Model(&models.PageView{}).
		Where("visitor_id = ?", visitorID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// CreatePageView 写入访问记录
func (r *GormVisitRepository) CreatePageView(view *models.PageView) error {
	return r.db.Create(view).Error
}

// EnsureDay 确保当日汇总行存在，并发创建时依赖唯一索引去重
func (r *GormVisitRepository) EnsureDay(date string) error {
	row := &models.DailyVisit{Date: date}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(row).Error
}

// IncrementDay 原子累加当日计数
func (r *GormVisitRepository) IncrementDay(date string, total, unique int64) error {
	result := r.db.Model(&models.DailyVisit{}).
		Where("date = ?", date).
		UpdateColumns(map[string]interface{}{
			"total_visits":    gorm.Expr("total_visits + ?", total),
			"unique_visitors": gorm.Expr("unique_visitors + ?", unique),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDailyVisitMissing, date)
	}
	return nil
}

// GetDay 获取某日汇总
func (r *GormVisitRepository) GetDay(date string) (*models.DailyVisit, error) {
	var row models.DailyVisit
	if err := r.db.Where("date = ?", date).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CountPageViews 统计访问记录数
func (r *GormVisitRepository) CountPageViews() (int64, error) {
	var total int64
	if err := r.db.Model(&models.PageView{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountDailyVisits 统计每日汇总行数
func (r *GormVisitRepository) CountDailyVisits() (int64, error) {
	var total int64
	if err := r.db.Model(&models.DailyVisit{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountPageViewsBetween 统计 [startAt, endAt) 区间内的访问记录
func (r *GormVisitRepository) CountPageViewsBetween(startAt, endAt time.Time) (int64, error) {
	var total int64
	if err := r.db.Model(&models.PageView{}).
		Where("timestamp >= ? AND timestamp < ?", startAt.UTC(), endAt.UTC()).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountDistinctVisitorsSince 统计某时间点之后的去重访客数
func (r *GormVisitRepository) CountDistinctVisitorsSince(since time.Time) (int64, error) {
	var total int64
	if err := r.db.Model(&models.PageView{}).
		Where("timestamp >= ?", since.UTC()).
		Distinct("visitor_id").
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListPageViews 访问记录列表
func (r *GormVisitRepository) ListPageViews(filter PageViewListFilter) ([]models.PageView, int64, error) {
	query := r.db.Model(&models.PageView{})
	if filter.URLPrefix != "" {
		query = query.Where(`url LIKE ? ESCAPE '\'`, escapeLike(filter.URLPrefix)+"%")
	}
	if filter.VisitorID != "" {
		query = query.Where("visitor_id = ?", filter.VisitorID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", filter.To.UTC())
	}

	return findPage[models.PageView](query, listPage{Page: filter.Page, PageSize: filter.PageSize, Order: "timestamp DESC, id DESC"})
}

// ListDailyVisits 每日汇总列表，按日期倒序
func (r *GormVisitRepository) ListDailyVisits(filter DailyVisitListFilter) ([]models.DailyVisit, int64, error) {
	query := r.db.Model(&models.DailyVisit{})
	if filter.DateFrom != "" {
		query = query.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("date <= ?", filter.DateTo)
	}

	return findPage[models.DailyVisit](query, listPage{Page: filter.Page, PageSize: filter.PageSize, Order: "date DESC"})
}

// DeleteAll 清空访问记录与每日汇总，返回各自删除行数
func (r *GormVisitRepository) DeleteAll() (int64, int64, error) {
	views := r.db.Where("1 = 1").Delete(&models.PageView{})
	if views.Error != nil {
		return 0, 0, views.Error
	}
	daily := r.db.Where("1 = 1").Delete(&models.DailyVisit{})
	if daily.Error != nil {
		return 0, 0, daily.Error
	}
	return views.RowsAffected, daily.RowsAffected, nil
}

// ClearUser 解除访问记录与用户的关联
func (r *GormVisitRepository) ClearUser(userID uint) error {
	if userID == 0 {
		return nil
	}
	return r.db.Model(&models.PageView{}).
		Where("user_id = ?", userID).
		UpdateColumn("user_id", nil).Error
}
