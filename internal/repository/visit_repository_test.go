package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/models"
)

func TestVisitRepositoryEnsureDayIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	for i := 0; i < 3; i++ {
		if err := repo.EnsureDay("2026-10-16"); err != nil {
			t.Fatalf("ensure day failed: %v", err)
		}
	}
	count, err := repo.CountDailyVisits()
	if err != nil {
		t.Fatalf("count daily visits failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("daily rows want 1 got %d", count)
	}
	row, err := repo.GetDay("2026-10-16")
	if err != nil || row == nil {
		t.Fatalf("get day failed: %v", err)
	}
	if row.TotalVisits != 0 || row.UniqueVisitors != 0 {
		t.Fatalf("fresh row should start at zero, got %+v", row)
	}
}

func TestVisitRepositoryIncrementDay(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	if err := repo.IncrementDay("2026-10-16", 1, 1); !errors.Is(err, ErrDailyVisitMissing) {
		t.Fatalf("increment without row want ErrDailyVisitMissing got %v", err)
	}
	if err := repo.EnsureDay("2026-10-16"); err != nil {
		t.Fatalf("ensure day failed: %v", err)
	}
	if err := repo.IncrementDay("2026-10-16", 1, 1); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := repo.IncrementDay("2026-10-16", 1, 0); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	row, _ := repo.GetDay("2026-10-16")
	if row.TotalVisits != 2 || row.UniqueVisitors != 1 {
		t.Fatalf("want total=2 unique=1 got total=%d unique=%d", row.TotalVisits, row.UniqueVisitors)
	}
}

func TestVisitRepositoryConcurrentIncrementsAreNotLost(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.EnsureDay("2026-10-16"); err != nil {
				errCh <- err
				return
			}
			if err := repo.IncrementDay("2026-10-16", 1, 1); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent increment failed: %v", err)
	}

	row, _ := repo.GetDay("2026-10-16")
	if row.TotalVisits != workers || row.UniqueVisitors != workers {
		t.Fatalf("want %d/%d got %d/%d", workers, workers, row.TotalVisits, row.UniqueVisitors)
	}
}

func TestVisitRepositoryExistsByVisitorID(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	exists, err := repo.ExistsByVisitorID("v-1")
	if err != nil || exists {
		t.Fatalf("visitor should not exist yet, exists=%v err=%v", exists, err)
	}
	if err := repo.CreatePageView(&models.PageView{URL: "/", VisitorID: "v-1"}); err != nil {
		t.Fatalf("create page view failed: %v", err)
	}
	exists, err = repo.ExistsByVisitorID("v-1")
	if err != nil || !exists {
		t.Fatalf("visitor should exist, exists=%v err=%v", exists, err)
	}
}

func TestVisitRepositoryDeleteAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	for _, visitor := range []string{"a", "b", "c"} {
		if err := repo.CreatePageView(&models.PageView{URL: "/", VisitorID: visitor}); err != nil {
			t.Fatalf("create page view failed: %v", err)
		}
	}
	_ = repo.EnsureDay("2026-10-15")
	_ = repo.EnsureDay("2026-10-16")

	views, daily, err := repo.DeleteAll()
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if views != 3 || daily != 2 {
		t.Fatalf("want deleted 3/2 got %d/%d", views, daily)
	}
	if n, _ := repo.CountPageViews(); n != 0 {
		t.Fatalf("page views should be empty, got %d", n)
	}
	if n, _ := repo.CountDailyVisits(); n != 0 {
		t.Fatalf("daily visits should be empty, got %d", n)
	}
}

func TestVisitRepositoryCountsAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	views := []models.PageView{
		{URL: "/polls/5/", VisitorID: "a", Timestamp: now},
		{URL: "/polls/5/results/", VisitorID: "a", Timestamp: now.Add(time.Minute)},
		{URL: "/blog/article/1/", VisitorID: "b", Timestamp: now.Add(-48 * time.Hour)},
	}
	for i := range views {
		if err := repo.CreatePageView(&views[i]); err != nil {
			t.Fatalf("create page view failed: %v", err)
		}
	}

	dayStart := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	today, err := repo.CountPageViewsBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil || today != 2 {
		t.Fatalf("today visits want 2 got %d err=%v", today, err)
	}
	distinct, err := repo.CountDistinctVisitorsSince(dayStart.AddDate(0, 0, -30))
	if err != nil || distinct != 2 {
		t.Fatalf("distinct visitors want 2 got %d err=%v", distinct, err)
	}

	rows, total, err := repo.ListPageViews(PageViewListFilter{URLPrefix: "/polls/", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list page views failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("want 2 poll views got total=%d len=%d", total, len(rows))
	}
	if rows[0].URL != "/polls/5/results/" {
		t.Fatalf("list should be newest first, got %s", rows[0].URL)
	}
}

func TestVisitRepositoryListDailyVisitsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewVisitRepository(db)
	for _, day := range []string{"2026-10-14", "2026-10-16", "2026-10-15"} {
		if err := repo.EnsureDay(day); err != nil {
			t.Fatalf("ensure day failed: %v", err)
		}
	}
	rows, total, err := repo.ListDailyVisits(DailyVisitListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list daily visits failed: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("want total 3 page 2 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Date != "2026-10-16" || rows[1].Date != "2026-10-15" {
		t.Fatalf("unexpected order: %s, %s", rows[0].Date, rows[1].Date)
	}
}
