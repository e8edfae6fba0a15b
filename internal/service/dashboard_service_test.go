package service

import (
	"context"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"
)

func TestDashboardServiceRefresh(t *testing.T) {
	db := openServiceTestDB(t)
	author := createServiceTestUser(t, db, "author")
	createServiceTestUser(t, db, "reader")
	if err := db.Create(&models.Article{Title: "Hello", Content: "World", AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create article failed: %v", err)
	}
	if err := db.Create(&models.Question{QuestionText: "Q?", PubDate: time.Now(), AuthorID: author.ID, IsActive: true}).Error; err != nil {
		t.Fatalf("create question failed: %v", err)
	}

	now := time.Now().UTC()
	tracker := NewVisitTracker(repository.NewVisitRepository(db), config.Default().Tracking, nil)
	tracker.SetClock(func() time.Time { return now })
	ctx := context.Background()
	tracker.Track(ctx, VisitRequest{Path: "/", URL: "/", Cookies: cookieJar{}})
	tracker.Track(ctx, VisitRequest{Path: "/polls/", URL: "/polls/", Cookies: cookieJar{}})
	old := models.PageView{URL: "/", VisitorID: "old", Timestamp: now.AddDate(0, 0, -90)}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("create old page view failed: %v", err)
	}

	svc := NewDashboardService(repository.NewDashboardRepository(db), repository.NewVisitRepository(db), config.DashboardConfig{UniqueWindowDays: 30}, time.UTC)
	svc.now = func() time.Time { return now }

	overview, err := svc.GetOverview(ctx, true)
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.TotalUsers != 2 || overview.TotalPosts != 1 || overview.TotalPolls != 1 {
		t.Fatalf("unexpected content totals %+v", overview)
	}
	if overview.TotalVisits != 3 {
		t.Fatalf("total visits want 3 got %d", overview.TotalVisits)
	}
	if overview.TodayVisits != 2 {
		t.Fatalf("today visits want 2 got %d", overview.TodayVisits)
	}
	if overview.UniqueVisitors != 2 {
		t.Fatalf("unique visitors in window want 2 got %d", overview.UniqueVisitors)
	}
	if overview.Today == nil || overview.Today.TotalVisits != 2 || overview.Today.UniqueRate != "100.00" {
		t.Fatalf("unexpected today aggregate %+v", overview.Today)
	}
	if len(overview.TopPages) != 2 {
		t.Fatalf("top pages want 2 got %d", len(overview.TopPages))
	}
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		part, total int64
		want        string
	}{
		{0, 0, "0.00"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{5, 5, "100.00"},
	}
	for _, tc := range cases {
		if got := percentOf(tc.part, tc.total); got != tc.want {
			t.Fatalf("percentOf(%d,%d) want %s got %s", tc.part, tc.total, tc.want, got)
		}
	}
}
