package repository

import (
	"errors"

	"github.com/palmapernia/tp-django/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	List(filter CommentListFilter) ([]models.Comment, int64, error)
	GetByID(id uint) (*models.Comment, error)
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
	Delete(id uint) error
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// List 评论列表，按创建时间倒序
func (r *GormCommentRepository) List(filter CommentListFilter) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{})
	if filter.ArticleID != 0 {
		query = query.Where("article_id = ?", filter.ArticleID)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	return findPage[models.Comment](query, listPage{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Order:    "created_at DESC, id DESC",
		Preloads: []func(*gorm.DB) *gorm.DB{preload("Author")},
	})
}

// GetByID 根据 ID 获取评论
func (r *GormCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create 创建评论
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Create(comment).Error
}

// Update 更新评论
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Save(comment).Error
}

// Delete 删除评论
func (r *GormCommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
