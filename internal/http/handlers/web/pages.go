package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/i18n"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

const homeArticleLimit = 20

type pageData struct {
	Title    string
	Locale   string
	Username string
	Data     interface{}
	Error    string
}

func (h *Handler) render(c *gin.Context, status int, name, title string, data interface{}, errMsg string) {
	page := pageData{
		Title:  title,
		Locale: i18n.ResolveLocale(c),
		Data:   data,
		Error:  errMsg,
	}
	if value, ok := c.Get("username"); ok {
		if username, ok := value.(string); ok {
			page.Username = username
		}
	}
	c.HTML(status, name, page)
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	locale := i18n.ResolveLocale(c)
	h.render(c, http.StatusNotFound, "not_found.html", i18n.T(locale, "page.not_found"), nil, "")
}

func (h *Handler) serverError(c *gin.Context, err error) {
	handlershared.RequestLog(c).Errorw("page_render_failed", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func parsePageID(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || raw == 0 {
		return 0, false
	}
	return uint(raw), true
}

// Home 首页：最新文章
func (h *Handler) Home(c *gin.Context) {
	articles, _, err := h.ArticleService.List("", 1, homeArticleLimit)
	if err != nil {
		h.serverError(c, err)
		return
	}
	locale := i18n.ResolveLocale(c)
	h.render(c, http.StatusOK, "home.html", i18n.T(locale, "page.home"), articles, "")
}

// ArticleDetail 文章详情与评论
func (h *Handler) ArticleDetail(c *gin.Context) {
	id, ok := parsePageID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	article, err := h.ArticleService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			h.NotFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "article.html", article.Title, article, "")
}

// PollIndex 最新的五个投票
func (h *Handler) PollIndex(c *gin.Context) {
	questions, err := h.PollService.Latest()
	if err != nil {
		h.serverError(c, err)
		return
	}
	locale := i18n.ResolveLocale(c)
	h.render(c, http.StatusOK, "poll_index.html", i18n.T(locale, "page.polls"), questions, "")
}

// PollDetail 投票详情与表单
func (h *Handler) PollDetail(c *gin.Context) {
	question, ok := h.loadQuestion(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "poll_detail.html", question.QuestionText, question, "")
}

// PollResults 投票结果
func (h *Handler) PollResults(c *gin.Context) {
	id, ok := parsePageID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	result, err := h.PollService.Results(id)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			h.NotFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "poll_results.html", result.Question.QuestionText, result, "")
}

// PollVote 表单投票，成功后重定向到结果页
func (h *Handler) PollVote(c *gin.Context) {
	question, ok := h.loadQuestion(c)
	if !ok {
		return
	}
	var choiceID uint
	if raw, err := strconv.ParseUint(strings.TrimSpace(c.PostForm("choice")), 10, 64); err == nil {
		choiceID = uint(raw)
	}

	_, err := h.PollService.Vote(question.ID, choiceID)
	if err != nil {
		locale := i18n.ResolveLocale(c)
		switch {
		case errors.Is(err, service.ErrPollClosed):
			h.render(c, http.StatusOK, "poll_detail.html", question.QuestionText, question, i18n.T(locale, "page.poll_closed"))
		case errors.Is(err, service.ErrChoiceRequired), errors.Is(err, service.ErrChoiceMismatch):
			h.render(c, http.StatusOK, "poll_detail.html", question.QuestionText, question, i18n.T(locale, "page.choice_required"))
		case errors.Is(err, service.ErrQuestionNotFound):
			h.NotFound(c)
		default:
			h.serverError(c, err)
		}
		return
	}
	c.Redirect(http.StatusFound, "/polls/"+strconv.FormatUint(uint64(question.ID), 10)+"/results/")
}

func (h *Handler) loadQuestion(c *gin.Context) (*models.Question, bool) {
	id, ok := parsePageID(c, "id")
	if !ok {
		h.NotFound(c)
		return nil, false
	}
	question, err := h.PollService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			h.NotFound(c)
			return nil, false
		}
		h.serverError(c, err)
		return nil, false
	}
	return question, true
}
