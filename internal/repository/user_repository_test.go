package repository

import (
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/models"
)

func TestUserRepositoryDeleteKeepsPageViews(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, db, "alice")

	view := &models.PageView{URL: "/", VisitorID: "v-1", UserID: &user.ID}
	if err := db.Create(view).Error; err != nil {
		t.Fatalf("create page view failed: %v", err)
	}
	article := &models.Article{Title: "t", Content: "c", AuthorID: user.ID}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("create article failed: %v", err)
	}
	question := &models.Question{QuestionText: "q?", PubDate: time.Now(), AuthorID: user.ID, IsActive: true}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	if err := db.Create(&models.Choice{QuestionID: question.ID, ChoiceText: "yes"}).Error; err != nil {
		t.Fatalf("create choice failed: %v", err)
	}

	if err := repo.Delete(user.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}

	var stored models.PageView
	if err := db.First(&stored, view.ID).Error; err != nil {
		t.Fatalf("page view should survive user deletion: %v", err)
	}
	if stored.UserID != nil {
		t.Fatalf("page view user reference should be cleared, got %d", *stored.UserID)
	}
	var articles, choices int64
	db.Model(&models.Article{}).Count(&articles)
	db.Model(&models.Choice{}).Count(&choices)
	if articles != 0 || choices != 0 {
		t.Fatalf("authored content should be removed, articles=%d choices=%d", articles, choices)
	}
	if got, _ := repo.GetByID(user.ID); got != nil {
		t.Fatalf("user should be deleted")
	}
}

func TestUserRepositoryListKeyword(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	users, total, err := repo.List(UserListFilter{Keyword: "ali", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("unexpected result: total=%d users=%v", total, users)
	}
}

func TestUserRepositoryBumpTokenVersion(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, db, "carol")

	if err := repo.BumpTokenVersion(user.ID); err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}
	got, _ := repo.GetByID(user.ID)
	if got.TokenVersion != 1 {
		t.Fatalf("token version want 1 got %d", got.TokenVersion)
	}
}
