package public

import (
	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"

	"github.com/gin-gonic/gin"
)

const myDashboardRecentLimit = 5

// GetMyArticles 当前用户的文章
func (h *Handler) GetMyArticles(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	articles, total, err := h.ArticleService.ListByAuthor(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.article_fetch_failed", err)
		return
	}
	response.Page(c, toArticleListItems(articles), page, pageSize, total)
}

// GetMyPolls 当前用户的投票
func (h *Handler) GetMyPolls(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	questions, total, err := h.PollService.ListByAuthor(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.question_fetch_failed", err)
		return
	}
	response.Page(c, questions, page, pageSize, total)
}

// GetMyDashboard 个人主页：资料与最近发表的内容
func (h *Handler) GetMyDashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondProfileError(c, err, "error.user_fetch_failed")
		return
	}
	articles, articleTotal, err := h.ArticleService.ListByAuthor(userID, 1, myDashboardRecentLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.article_fetch_failed", err)
		return
	}
	questions, pollTotal, err := h.PollService.ListByAuthor(userID, 1, myDashboardRecentLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.question_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"user":            userProfile(user),
		"article_count":   articleTotal,
		"poll_count":      pollTotal,
		"recent_articles": toArticleListItems(articles),
		"recent_polls":    questions,
	})
}
