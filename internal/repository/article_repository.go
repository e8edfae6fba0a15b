package repository

import (
	"errors"
	"strings"

	"github.com/palmapernia/tp-django/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository 文章数据访问接口
type ArticleRepository interface {
	List(filter ArticleListFilter) ([]models.Article, int64, error)
	GetByID(id uint, withComments bool) (*models.Article, error)
	Create(article *models.Article) error
	Update(article *models.Article) error
	Delete(id uint) error
	Count() (int64, error)
}

// GormArticleRepository GORM 实现
type GormArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文章仓库
func NewArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// List 文章列表，按创建时间倒序
func (r *GormArticleRepository) List(filter ArticleListFilter) ([]models.Article, int64, error) {
	query := r.db.Model(&models.Article{})

	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"title", "content"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	page := listPage{Page: filter.Page, PageSize: filter.PageSize, Order: "created_at DESC, id DESC"}
	if filter.WithAuthor {
		page.Preloads = append(page.Preloads, preload("Author"))
	}
	return findPage[models.Article](query, page)
}

// GetByID 根据 ID 获取文章
func (r *GormArticleRepository) GetByID(id uint, withComments bool) (*models.Article, error) {
	query := r.db.Preload("Author")
	if withComments {
		query = query.Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).Preload("Comments.Author")
	}

	var article models.Article
	if err := query.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// Create 创建文章
func (r *GormArticleRepository) Create(article *models.Article) error {
	return r.db.Omit(clause.Associations).Create(article).Error
}

// Update 更新文章
func (r *GormArticleRepository) Update(article *models.Article) error {
	return r.db.Omit(clause.Associations).Save(article).Error
}

// Delete 删除文章及其评论
func (r *GormArticleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
}

// Count 文章总数
func (r *GormArticleRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Article{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
