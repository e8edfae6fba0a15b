package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"

	"gorm.io/gorm"
)

func newTestVisitTracker(t *testing.T, clock *time.Time) (*VisitTracker, *countingObserver, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	observer := newCountingObserver()
	tracker := NewVisitTracker(repository.NewVisitRepository(db), config.Default().Tracking, observer)
	tracker.SetClock(func() time.Time { return *clock })
	return tracker, observer, db
}

func findCookie(result TrackResult, name string) string {
	for _, cookie := range result.Cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func TestVisitTrackerRecordsNewVisitor(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	tracker, observer, db := newTestVisitTracker(t, &now)

	result := tracker.Track(context.Background(), VisitRequest{
		Path:      "/blog/article/3/",
		URL:       "/blog/article/3/",
		IPAddress: "127.0.0.1",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		Cookies:   cookieJar{},
	})
	if result.Outcome != constants.VisitOutcomeRecorded {
		t.Fatalf("outcome want recorded got %s", result.Outcome)
	}
	if !result.NewVisitor || !result.Unique {
		t.Fatalf("first visit should be new and unique, got %+v", result)
	}
	if result.Date != "2026-10-16" {
		t.Fatalf("date want 2026-10-16 got %s", result.Date)
	}
	if findCookie(result, "visitor_id") != result.VisitorID {
		t.Fatalf("visitor cookie should carry generated id")
	}
	if findCookie(result, "session_visited_2026-10-16") != "true" {
		t.Fatalf("session flag cookie missing")
	}

	var view models.PageView
	if err := db.First(&view).Error; err != nil {
		t.Fatalf("load page view failed: %v", err)
	}
	if view.Device != "mobile" {
		t.Fatalf("device want mobile got %s", view.Device)
	}
	if view.UserID != nil {
		t.Fatalf("anonymous visit should have nil user id")
	}
	if observer.visits[constants.VisitOutcomeRecorded] != 1 {
		t.Fatalf("observer should see one recorded visit, got %v", observer.visits)
	}
}

func TestVisitTrackerSkipsSecondVisitSameSession(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	tracker, _, db := newTestVisitTracker(t, &now)

	result := tracker.Track(context.Background(), VisitRequest{
		Path:    "/",
		URL:     "/",
		Cookies: cookieJar{"visitor_id": "abc", "session_visited_2026-10-16": "true"},
	})
	if result.Outcome != constants.VisitOutcomeAlreadyCounted {
		t.Fatalf("outcome want already_counted got %s", result.Outcome)
	}
	if len(result.Cookies) != 0 {
		t.Fatalf("already counted visit should not set cookies")
	}
	var count int64
	db.Model(&models.PageView{}).Count(&count)
	if count != 0 {
		t.Fatalf("page views want 0 got %d", count)
	}
}

func TestVisitTrackerUniqueIsAllTime(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)
	tracker, _, db := newTestVisitTracker(t, &now)
	ctx := context.Background()

	first := tracker.Track(ctx, VisitRequest{Path: "/", URL: "/", Cookies: cookieJar{}})
	if !first.Unique {
		t.Fatalf("first visit should be unique")
	}

	// 次日同一访客，无当日会话标记
	now = now.Add(2 * time.Hour)
	second := tracker.Track(ctx, VisitRequest{
		Path:    "/polls/",
		URL:     "/polls/",
		Cookies: cookieJar{"visitor_id": first.VisitorID},
	})
	if second.Outcome != constants.VisitOutcomeRecorded {
		t.Fatalf("next day visit want recorded got %s", second.Outcome)
	}
	if second.Date != "2026-10-17" {
		t.Fatalf("date want 2026-10-17 got %s", second.Date)
	}
	if second.NewVisitor || second.Unique {
		t.Fatalf("returning visitor should not be new or unique, got %+v", second)
	}
	if findCookie(second, "visitor_id") != "" {
		t.Fatalf("returning visitor should not be reissued a cookie")
	}

	var day models.DailyVisit
	if err := db.Where("date = ?", "2026-10-17").First(&day).Error; err != nil {
		t.Fatalf("load daily visit failed: %v", err)
	}
	if day.TotalVisits != 1 || day.UniqueVisitors != 0 {
		t.Fatalf("want total=1 unique=0 got total=%d unique=%d", day.TotalVisits, day.UniqueVisitors)
	}
}

func TestVisitTrackerRegeneratesOverlongVisitorID(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	tracker, _, _ := newTestVisitTracker(t, &now)

	result := tracker.Track(context.Background(), VisitRequest{
		Path:    "/",
		URL:     "/",
		Cookies: cookieJar{"visitor_id": strings.Repeat("x", 40)},
	})
	if !result.NewVisitor {
		t.Fatalf("overlong visitor id should be replaced")
	}
	if len(result.VisitorID) != 36 {
		t.Fatalf("generated id want 36 chars got %d", len(result.VisitorID))
	}
}

func TestVisitTrackerExcludedAndDisabled(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	tracker, observer, _ := newTestVisitTracker(t, &now)

	for _, path := range []string{"/admin/", "/static/app.css", "/api/v1/polls/questions", "/favicon.ico"} {
		result := tracker.Track(context.Background(), VisitRequest{Path: path, URL: path})
		if result.Outcome != constants.VisitOutcomeExcluded {
			t.Fatalf("path %s want excluded got %s", path, result.Outcome)
		}
	}
	if observer.visits[constants.VisitOutcomeExcluded] != 4 {
		t.Fatalf("observer excluded count want 4 got %d", observer.visits[constants.VisitOutcomeExcluded])
	}

	cfg := config.Default().Tracking
	cfg.Enabled = false
	disabled := NewVisitTracker(nil, cfg, nil)
	if result := disabled.Track(context.Background(), VisitRequest{Path: "/"}); result.Outcome != constants.VisitOutcomeDisabled {
		t.Fatalf("disabled tracker want disabled got %s", result.Outcome)
	}
}

func TestVisitTrackerRecordsUserAndTruncatesURL(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	tracker, _, db := newTestVisitTracker(t, &now)
	user := createServiceTestUser(t, db, "bob")

	longURL := "/blog/?q=" + strings.Repeat("a", 600)
	result := tracker.Track(context.Background(), VisitRequest{
		Path:       "/blog/",
		URL:        longURL,
		UserID:     &user.ID,
		SessionKey: strings.Repeat("s", 50),
		Cookies:    cookieJar{},
	})
	if result.Outcome != constants.VisitOutcomeRecorded {
		t.Fatalf("outcome want recorded got %s", result.Outcome)
	}
	var view models.PageView
	if err := db.First(&view).Error; err != nil {
		t.Fatalf("load page view failed: %v", err)
	}
	if view.UserID == nil || *view.UserID != user.ID {
		t.Fatalf("user id want %d got %v", user.ID, view.UserID)
	}
	if len(view.URL) != constants.PageViewURLMaxLength {
		t.Fatalf("url length want %d got %d", constants.PageViewURLMaxLength, len(view.URL))
	}
	if len(view.SessionKey) != constants.SessionKeyMaxLength {
		t.Fatalf("session key length want %d got %d", constants.SessionKeyMaxLength, len(view.SessionKey))
	}
}

func TestVisitTrackerStoreFailureIsAbsorbed(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	tracker, observer, db := newTestVisitTracker(t, &now)
	if err := db.Migrator().DropTable(&models.DailyVisit{}); err != nil {
		t.Fatalf("drop daily visits failed: %v", err)
	}

	result := tracker.Track(context.Background(), VisitRequest{Path: "/", URL: "/", Cookies: cookieJar{}})
	if result.Outcome != constants.VisitOutcomeFailed {
		t.Fatalf("outcome want failed got %s", result.Outcome)
	}
	if len(result.Cookies) != 0 {
		t.Fatalf("failed visit should not set cookies, got %d", len(result.Cookies))
	}
	var count int64
	if err := db.Model(&models.PageView{}).Count(&count).Error; err != nil {
		t.Fatalf("count page views failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("page view insert should be rolled back, got %d rows", count)
	}
	if observer.visits[constants.VisitOutcomeFailed] != 1 {
		t.Fatalf("observer failed count want 1 got %d", observer.visits[constants.VisitOutcomeFailed])
	}
}

func TestVisitTrackerWithoutStoreReportsFailure(t *testing.T) {
	tracker := NewVisitTracker(repository.NewVisitRepository(nil), config.Default().Tracking, nil)
	result := tracker.Track(context.Background(), VisitRequest{Path: "/", URL: "/", Cookies: cookieJar{}})
	if result.Outcome != constants.VisitOutcomeFailed {
		t.Fatalf("outcome want failed got %s", result.Outcome)
	}
	if len(result.Cookies) != 0 {
		t.Fatalf("failed visit should not set cookies")
	}
}

func TestVisitTrackerCountsDistinctFirstVisitors(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	tracker, _, db := newTestVisitTracker(t, &now)
	ctx := context.Background()

	for _, visitor := range []string{"visitor-a", "visitor-b"} {
		result := tracker.Track(ctx, VisitRequest{Path: "/", URL: "/", Cookies: cookieJar{"visitor_id": visitor}})
		if result.Outcome != constants.VisitOutcomeRecorded || !result.Unique {
			t.Fatalf("visitor %s want recorded and unique got %+v", visitor, result)
		}
	}

	var day models.DailyVisit
	if err := db.Where("date = ?", "2026-10-16").First(&day).Error; err != nil {
		t.Fatalf("load daily visit failed: %v", err)
	}
	if day.TotalVisits != 2 || day.UniqueVisitors != 2 {
		t.Fatalf("want total=2 unique=2 got total=%d unique=%d", day.TotalVisits, day.UniqueVisitors)
	}
}

func TestVisitTrackerConcurrentVisitsAreNotLost(t *testing.T) {
	db := openServiceTestDB(t)
	tracker := NewVisitTracker(repository.NewVisitRepository(db), config.Default().Tracking, nil)
	tracker.SetClock(func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) })

	const visitors = 30
	var wg sync.WaitGroup
	outcomes := make(chan string, visitors)
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := tracker.Track(context.Background(), VisitRequest{
				Path:    "/",
				URL:     "/",
				Cookies: cookieJar{"visitor_id": fmt.Sprintf("visitor-%02d", i)},
			})
			outcomes <- result.Outcome
		}(i)
	}
	wg.Wait()
	close(outcomes)
	for outcome := range outcomes {
		if outcome != constants.VisitOutcomeRecorded {
			t.Fatalf("concurrent visit want recorded got %s", outcome)
		}
	}

	var day models.DailyVisit
	if err := db.Where("date = ?", "2026-10-16").First(&day).Error; err != nil {
		t.Fatalf("load daily visit failed: %v", err)
	}
	if day.TotalVisits != visitors || day.UniqueVisitors != visitors {
		t.Fatalf("want total=%d unique=%d got total=%d unique=%d", visitors, visitors, day.TotalVisits, day.UniqueVisitors)
	}
}
