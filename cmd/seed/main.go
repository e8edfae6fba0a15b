package main

import (
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"
	"github.com/palmapernia/tp-django/internal/service"
)

type seedPoll struct {
	question string
	choices  []string
	age      time.Duration
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(models.DB)
	authService := service.NewUserAuthService(cfg, userRepo)
	articleService := service.NewArticleService(repository.NewArticleRepository(models.DB))
	pollService := service.NewPollService(repository.NewQuestionRepository(models.DB), repository.NewChoiceRepository(models.DB), nil)

	// 演示作者
	author, err := userRepo.GetByUsername("demo")
	if err != nil {
		stdLog.Fatalf("Failed to load demo user: %v", err)
	}
	if author == nil {
		author, _, _, err = authService.Register(service.RegisterInput{
			Username:  "demo",
			Password:  "demo-pass-2026",
			Email:     "demo@example.com",
			FirstName: "Demo",
			LastName:  "Author",
		})
		if err != nil {
			stdLog.Fatalf("Failed to create demo user: %v", err)
		}
	}

	articles := []struct{ title, content string }{
		{"Hello, world", "First post on the new site. Articles, comments and polls all live here."},
		{"How visits are counted", "Each browser gets a visitor cookie and is counted at most once per day and session."},
		{"Writing polls", "Create a question, add a few choices and share the link. Results update as votes arrive."},
	}
	for _, item := range articles {
		title, content := item.title, item.content
		if _, err := articleService.Create(author.ID, service.ArticleInput{Title: &title, Content: &content}); err != nil {
			stdLog.Printf("Failed to create article %q: %v", title, err)
		}
	}

	polls := []seedPoll{
		{"What's new?", []string{"Not much", "The sky", "Just hacking again"}, time.Hour},
		{"Favourite framework?", []string{"gin", "echo", "chi", "net/http"}, 48 * time.Hour},
	}
	for _, item := range polls {
		text := item.question
		pubDate := time.Now().Add(-item.age)
		if _, err := pollService.Create(author.ID, service.QuestionInput{
			QuestionText: &text,
			PubDate:      &pubDate,
			Choices:      item.choices,
		}); err != nil {
			stdLog.Printf("Failed to create poll %q: %v", text, err)
		}
	}

	logger.Infow("seed_completed", "author", author.Username, "articles", len(articles), "polls", len(polls))
}
