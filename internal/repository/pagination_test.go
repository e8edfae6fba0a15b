package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/models"
)

func TestArticleListPagesNewestFirst(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "writer")
	repo := NewArticleRepository(db)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		article := &models.Article{
			Title:     fmt.Sprintf("post-%d", i),
			Content:   "body",
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(article).Error; err != nil {
			t.Fatalf("create article failed: %v", err)
		}
	}

	rows, total, err := repo.List(ArticleListFilter{Page: 2, PageSize: 2, WithAuthor: true})
	if err != nil {
		t.Fatalf("list articles failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("total want 5 got %d", total)
	}
	if len(rows) != 2 || rows[0].Title != "post-3" || rows[1].Title != "post-2" {
		t.Fatalf("page 2 want [post-3 post-2] got %+v", rows)
	}
	if rows[0].Author == nil || rows[0].Author.Username != "writer" {
		t.Fatalf("author should be preloaded on page rows")
	}

	rows, total, err = repo.List(ArticleListFilter{Page: 9, PageSize: 2})
	if err != nil {
		t.Fatalf("list past last page failed: %v", err)
	}
	if total != 5 || rows == nil || len(rows) != 0 {
		t.Fatalf("past last page want empty rows and total 5, got %d rows total %d", len(rows), total)
	}

	rows, _, err = repo.List(ArticleListFilter{})
	if err != nil {
		t.Fatalf("list without paging failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("no page size should return all rows, got %d", len(rows))
	}
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, size int
		want       int64
	}{
		{page: 1, size: 20, want: 0},
		{page: 3, size: 20, want: 40},
		{page: 0, size: 20, want: 0},
		{page: -4, size: 20, want: 0},
		{page: 2, size: 0, want: 0},
	}
	for _, tc := range cases {
		if got := pageOffset(tc.page, tc.size); got != tc.want {
			t.Fatalf("offset page=%d size=%d want %d got %d", tc.page, tc.size, tc.want, got)
		}
	}
}
