package repository

import (
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/models"
)

func TestDashboardRepositoryOverviewAndTopPages(t *testing.T) {
	db := openTestDB(t)
	repo := NewDashboardRepository(db)
	author := createTestUser(t, db, "author")
	if err := db.Create(&models.Article{Title: "a", Content: "b", AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create article failed: %v", err)
	}

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	views := []models.PageView{
		{URL: "/polls/", VisitorID: "a", Timestamp: now},
		{URL: "/polls/", VisitorID: "b", Timestamp: now},
		{URL: "/", VisitorID: "a", Timestamp: now},
		{URL: "/", VisitorID: "c", Timestamp: now.AddDate(0, 0, -40)},
	}
	for i := range views {
		if err := db.Create(&views[i]).Error; err != nil {
			t.Fatalf("create page view failed: %v", err)
		}
	}

	dayStart := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	row, err := repo.GetOverview(dayStart, dayStart.AddDate(0, 0, 1), dayStart.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if row.TotalUsers != 1 || row.TotalArticles != 1 || row.TotalPolls != 0 {
		t.Fatalf("unexpected content counts: %+v", row)
	}
	if row.TotalVisits != 4 || row.TodayVisits != 3 || row.UniqueVisitors != 2 {
		t.Fatalf("unexpected visit counts: %+v", row)
	}

	pages, err := repo.GetTopPages(dayStart, dayStart.AddDate(0, 0, 1), 5)
	if err != nil {
		t.Fatalf("get top pages failed: %v", err)
	}
	if len(pages) != 2 || pages[0].URL != "/polls/" {
		t.Fatalf("unexpected top pages: %+v", pages)
	}
	if pages[0].Visits != 2 || pages[1].Visits != 1 {
		t.Fatalf("unexpected ranking: %+v", pages)
	}
}
