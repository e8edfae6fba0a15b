package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/provider"
	"github.com/palmapernia/tp-django/internal/repository"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type pageSite struct {
	engine *gin.Engine
	db     *gorm.DB
	polls  *service.PollService
	blog   *service.ArticleService
	author *models.User
}

func newPageSite(t *testing.T) *pageSite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:web_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, nil)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = previous
		_ = sqlDB.Close()
	})

	author := &models.User{Username: "author", PasswordHash: "x", Status: "active"}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("create author failed: %v", err)
	}

	articleRepo := repository.NewArticleRepository(db)
	site := &pageSite{
		db:     db,
		author: author,
		blog:   service.NewArticleService(articleRepo),
		polls:  service.NewPollService(repository.NewQuestionRepository(db), repository.NewChoiceRepository(db), nil),
	}
	handler := New(&provider.Container{
		ArticleService: site.blog,
		CommentService: service.NewCommentService(repository.NewCommentRepository(db), articleRepo),
		PollService:    site.polls,
	})

	templates, err := Templates()
	if err != nil {
		t.Fatalf("parse templates failed: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(templates)
	r.GET("/", handler.Home)
	r.GET("/blog/article/:id/", handler.ArticleDetail)
	r.GET("/polls/", handler.PollIndex)
	r.GET("/polls/:id/", handler.PollDetail)
	r.GET("/polls/:id/results/", handler.PollResults)
	r.POST("/polls/:id/vote/", handler.PollVote)
	r.NoRoute(handler.NotFound)
	site.engine = r
	return site
}

func (s *pageSite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (s *pageSite) vote(questionID uint, choice string) *httptest.ResponseRecorder {
	form := url.Values{}
	if choice != "" {
		form.Set("choice", choice)
	}
	req := httptest.NewRequest(http.MethodPost, "/polls/"+idString(questionID)+"/vote/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *pageSite) createPoll(t *testing.T, text string, choices ...string) *models.Question {
	t.Helper()
	question, err := s.polls.Create(s.author.ID, service.QuestionInput{QuestionText: &text, Choices: choices})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	return question
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestHomeAndArticlePages(t *testing.T) {
	site := newPageSite(t)
	title, content := "Hello world", strings.Repeat("word ", 40)
	article, err := site.blog.Create(site.author.ID, service.ArticleInput{Title: &title, Content: &content})
	if err != nil {
		t.Fatalf("create article failed: %v", err)
	}

	w := site.get("/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/blog/article/"+idString(article.ID)+"/") {
		t.Fatalf("home want 200 linking the article got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "...") {
		t.Fatalf("home should show the truncated summary")
	}

	w = site.get("/blog/article/" + idString(article.ID) + "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hello world") {
		t.Fatalf("article page want 200 with title got %d", w.Code)
	}

	for _, path := range []string{"/blog/article/9999/", "/blog/article/abc/", "/nowhere/"} {
		if w := site.get(path); w.Code != http.StatusNotFound {
			t.Fatalf("%s want 404 got %d", path, w.Code)
		}
	}
}

func TestPollPages(t *testing.T) {
	site := newPageSite(t)
	question := site.createPoll(t, "Best editor?", "vim", "emacs")

	w := site.get("/polls/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Best editor?") {
		t.Fatalf("poll index want 200 listing the question got %d", w.Code)
	}

	w = site.get("/polls/" + idString(question.ID) + "/")
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, `name="choice"`) || !strings.Contains(body, `value="Vote"`) {
		t.Fatalf("poll detail want vote form got %d %s", w.Code, body)
	}

	if w := site.get("/polls/9999/results/"); w.Code != http.StatusNotFound {
		t.Fatalf("missing poll results want 404 got %d", w.Code)
	}
}

func TestPollVoteFormRedirectsToResults(t *testing.T) {
	site := newPageSite(t)
	question := site.createPoll(t, "Tabs or spaces?", "tabs", "spaces")
	choiceID := question.Choices[1].ID

	w := site.vote(question.ID, idString(choiceID))
	if w.Code != http.StatusFound {
		t.Fatalf("vote want 302 got %d", w.Code)
	}
	want := "/polls/" + idString(question.ID) + "/results/"
	if got := w.Header().Get("Location"); got != want {
		t.Fatalf("redirect want %s got %s", want, got)
	}

	var choice models.Choice
	if err := site.db.First(&choice, choiceID).Error; err != nil {
		t.Fatalf("load choice failed: %v", err)
	}
	if choice.Votes != 1 {
		t.Fatalf("votes want 1 got %d", choice.Votes)
	}

	w = site.get(want)
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, "spaces: 1 (100.00%)") || !strings.Contains(body, "tabs: 0 (0.00%)") {
		t.Fatalf("results page want percentages got %d %s", w.Code, body)
	}
}

func TestPollVoteFormRendersErrors(t *testing.T) {
	site := newPageSite(t)
	question := site.createPoll(t, "Coffee?", "yes", "no")
	other := site.createPoll(t, "Tea?", "green", "black")

	w := site.vote(question.ID, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "select a choice") {
		t.Fatalf("missing choice want form with error got %d %s", w.Code, w.Body.String())
	}

	w = site.vote(question.ID, idString(other.Choices[0].ID))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "select a choice") {
		t.Fatalf("foreign choice want form with error got %d", w.Code)
	}

	if err := site.db.Model(&models.Question{}).Where("id = ?", question.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("close poll failed: %v", err)
	}
	w = site.vote(question.ID, idString(question.Choices[0].ID))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "poll is closed") {
		t.Fatalf("closed poll want closed message got %d %s", w.Code, w.Body.String())
	}

	var votes int64
	site.db.Model(&models.Choice{}).Select("COALESCE(SUM(votes), 0)").Scan(&votes)
	if votes != 0 {
		t.Fatalf("rejected votes must not be counted, got %d", votes)
	}

	if w := site.vote(9999, "1"); w.Code != http.StatusNotFound {
		t.Fatalf("vote on missing poll want 404 got %d", w.Code)
	}
}
