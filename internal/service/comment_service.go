package service

import (
	"strings"

	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"
)

// CommentService 评论业务服务
type CommentService struct {
	repo        repository.CommentRepository
	articleRepo repository.ArticleRepository
}

// NewCommentService 创建评论服务
func NewCommentService(repo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{repo: repo, articleRepo: articleRepo}
}

// List 评论列表，articleID 为 0 时返回全部
func (s *CommentService) List(articleID uint, page, pageSize int) ([]models.Comment, int64, error) {
	return s.repo.List(repository.CommentListFilter{
		Page:      page,
		PageSize:  pageSize,
		ArticleID: articleID,
	})
}

// Get 评论详情
func (s *CommentService) Get(id uint) (*models.Comment, error) {
	comment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// Create 发表评论
func (s *CommentService) Create(authorID, articleID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	article, err := s.articleRepo.GetByID(articleID, false)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	comment := &models.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   content,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return s.repo.GetByID(comment.ID)
}

// Update 修改评论内容，仅作者可操作
func (s *CommentService) Update(userID, id uint, content string) (*models.Comment, error) {
	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	comment.Content = content
	if err := s.repo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete 删除评论，仅作者可操作
func (s *CommentService) Delete(userID, id uint) error {
	comment, err := s.Get(id)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.Delete(id)
}
