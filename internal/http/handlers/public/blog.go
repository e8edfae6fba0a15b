package public

import (
	"strings"
	"time"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

// ArticleRequest 文章创建/更新请求，更新时缺省字段保持不变
type ArticleRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

// CommentRequest 评论创建请求
type CommentRequest struct {
	Article uint   `json:"article" binding:"required"`
	Content string `json:"content"`
}

// CommentUpdateRequest 评论修改请求
type CommentUpdateRequest struct {
	Content string `json:"content"`
}

// ArticleListItem 文章列表项
type ArticleListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ImageURL  string    `json:"image_url"`
	AuthorID  uint      `json:"author_id"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func toArticleListItems(articles []models.Article) []ArticleListItem {
	items := make([]ArticleListItem, 0, len(articles))
	for i := range articles {
		article := &articles[i]
		item := ArticleListItem{
			ID:        article.ID,
			Title:     article.Title,
			Summary:   article.Summary(),
			ImageURL:  article.ImageURL,
			AuthorID:  article.AuthorID,
			CreatedAt: article.CreatedAt,
		}
		if article.Author != nil {
			item.Author = article.Author.Username
		}
		items = append(items, item)
	}
	return items
}

// ListArticles 文章列表
func (h *Handler) ListArticles(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	articles, total, err := h.ArticleService.List(strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.article_fetch_failed", err)
		return
	}
	response.Page(c, toArticleListItems(articles), page, pageSize, total)
}

// GetArticle 文章详情（含评论）
func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.article_id_invalid")
	if !ok {
		return
	}
	article, err := h.ArticleService.Get(id)
	if err != nil {
		respondArticleError(c, err, "error.article_fetch_failed")
		return
	}
	response.Success(c, article)
}

// CreateArticle 发表文章
func (h *Handler) CreateArticle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	article, err := h.ArticleService.Create(userID, service.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondArticleError(c, err, "error.article_save_failed")
		return
	}
	response.Success(c, article)
}

// UpdateArticle 修改文章，仅作者
func (h *Handler) UpdateArticle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.article_id_invalid")
	if !ok {
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	article, err := h.ArticleService.Update(userID, id, service.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondArticleError(c, err, "error.article_save_failed")
		return
	}
	response.Success(c, article)
}

// DeleteArticle 删除文章，仅作者
func (h *Handler) DeleteArticle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.article_id_invalid")
	if !ok {
		return
	}
	if err := h.ArticleService.Delete(userID, id); err != nil {
		respondArticleError(c, err, "error.article_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListComments 评论列表，可按文章过滤
func (h *Handler) ListComments(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	articleID, err := handlershared.ParseUintQuery(c, "article")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.article_id_invalid", err)
		return
	}
	comments, total, err := h.CommentService.List(articleID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.comment_fetch_failed", err)
		return
	}
	response.Page(c, comments, page, pageSize, total)
}

// CreateComment 发表评论
func (h *Handler) CreateComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	comment, err := h.CommentService.Create(userID, req.Article, req.Content)
	if err != nil {
		respondCommentError(c, err, "error.comment_save_failed")
		return
	}
	response.Success(c, comment)
}

// UpdateComment 修改评论，仅作者
func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.comment_id_invalid")
	if !ok {
		return
	}
	var req CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	comment, err := h.CommentService.Update(userID, id, req.Content)
	if err != nil {
		respondCommentError(c, err, "error.comment_save_failed")
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除评论，仅作者
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.comment_id_invalid")
	if !ok {
		return
	}
	if err := h.CommentService.Delete(userID, id); err != nil {
		respondCommentError(c, err, "error.comment_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
