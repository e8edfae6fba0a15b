package service

import (
	"strings"

	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"
)

// ArticleService 文章业务服务
type ArticleService struct {
	repo repository.ArticleRepository
}

// NewArticleService 创建文章服务
func NewArticleService(repo repository.ArticleRepository) *ArticleService {
	return &ArticleService{repo: repo}
}

// ArticleInput 创建/更新文章输入，更新时 nil 表示不修改
type ArticleInput struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// List 文章列表，按创建时间倒序
func (s *ArticleService) List(search string, page, pageSize int) ([]models.Article, int64, error) {
	return s.repo.List(repository.ArticleListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		WithAuthor: true,
	})
}

// ListByAuthor 指定作者的文章
func (s *ArticleService) ListByAuthor(authorID uint, page, pageSize int) ([]models.Article, int64, error) {
	return s.repo.List(repository.ArticleListFilter{
		Page:       page,
		PageSize:   pageSize,
		AuthorID:   authorID,
		WithAuthor: true,
	})
}

// Get 文章详情，包含评论
func (s *ArticleService) Get(id uint) (*models.Article, error) {
	article, err := s.repo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Create 创建文章
func (s *ArticleService) Create(authorID uint, input ArticleInput) (*models.Article, error) {
	article := &models.Article{AuthorID: authorID}
	if err := applyArticleInput(article, input, true); err != nil {
		return nil, err
	}
	if err := s.repo.Create(article); err != nil {
		return nil, err
	}
	return s.repo.GetByID(article.ID, false)
}

// Update 更新文章，仅作者可操作
func (s *ArticleService) Update(userID, id uint, input ArticleInput) (*models.Article, error) {
	article, err := s.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if article.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	if err := applyArticleInput(article, input, false); err != nil {
		return nil, err
	}
	if err := s.repo.Update(article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete 删除文章，仅作者可操作
func (s *ArticleService) Delete(userID, id uint) error {
	article, err := s.repo.GetByID(id, false)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.Delete(id)
}

func applyArticleInput(article *models.Article, input ArticleInput, create bool) error {
	if input.Title != nil || create {
		title := ""
		if input.Title != nil {
			title = strings.TrimSpace(*input.Title)
		}
		if title == "" {
			return ErrTitleRequired
		}
		if len([]rune(title)) > constants.ArticleTitleMaxLength {
			return ErrTitleTooLong
		}
		article.Title = title
	}
	if input.Content != nil || create {
		content := ""
		if input.Content != nil {
			content = strings.TrimSpace(*input.Content)
		}
		if content == "" {
			return ErrContentRequired
		}
		article.Content = content
	}
	if input.ImageURL != nil {
		article.ImageURL = truncateRunes(strings.TrimSpace(*input.ImageURL), 500)
	}
	return nil
}
