package service

import (
	"context"
	"errors"
	"testing"

	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"

	"gorm.io/gorm"
)

type recordingRefresher struct {
	reasons []string
	err     error
}

func (r *recordingRefresher) EnqueueDashboardRefresh(reason string) error {
	r.reasons = append(r.reasons, reason)
	return r.err
}

func seedVisits(t *testing.T, db *gorm.DB) {
	t.Helper()
	views := []models.PageView{
		{URL: "/", VisitorID: "v1"},
		{URL: "/polls/", VisitorID: "v1"},
		{URL: "/", VisitorID: "v2"},
	}
	if err := db.Create(&views).Error; err != nil {
		t.Fatalf("seed page views failed: %v", err)
	}
	days := []models.DailyVisit{
		{Date: "2026-10-15", TotalVisits: 1, UniqueVisitors: 1},
		{Date: "2026-10-16", TotalVisits: 2, UniqueVisitors: 1},
	}
	if err := db.Create(&days).Error; err != nil {
		t.Fatalf("seed daily visits failed: %v", err)
	}
}

func TestVisitAdminResetRequiresConfirm(t *testing.T) {
	db := openServiceTestDB(t)
	seedVisits(t, db)
	observer := newCountingObserver()
	refresher := &recordingRefresher{}
	svc := NewVisitAdminService(repository.NewVisitRepository(db), nil, refresher, observer)

	result, err := svc.Reset(context.Background(), false)
	if err != nil {
		t.Fatalf("reset without confirm failed: %v", err)
	}
	if result.Confirmed {
		t.Fatalf("result should not be confirmed")
	}
	if result.PageViews != 3 || result.DailyAggregates != 2 {
		t.Fatalf("want counts 3/2 got %d/%d", result.PageViews, result.DailyAggregates)
	}
	if result.MessageKey != "visit.reset_confirm_required" {
		t.Fatalf("message key want visit.reset_confirm_required got %s", result.MessageKey)
	}
	views, daily, _ := svc.Counts()
	if views != 3 || daily != 2 {
		t.Fatalf("unconfirmed reset must not delete, got %d/%d", views, daily)
	}
	if len(refresher.reasons) != 0 {
		t.Fatalf("unconfirmed reset should not enqueue refresh")
	}
	if len(observer.resets) != 1 || observer.resets[0] {
		t.Fatalf("observer want [false] got %v", observer.resets)
	}
}

func TestVisitAdminResetDeletesEverything(t *testing.T) {
	db := openServiceTestDB(t)
	seedVisits(t, db)
	refresher := &recordingRefresher{err: errors.New("queue down")}
	svc := NewVisitAdminService(repository.NewVisitRepository(db), nil, refresher, nil)

	result, err := svc.Reset(context.Background(), true)
	if err != nil {
		t.Fatalf("confirmed reset failed: %v", err)
	}
	if !result.Confirmed || result.PageViews != 3 || result.DailyAggregates != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.MessageKey != "visit.reset_done" {
		t.Fatalf("message key want visit.reset_done got %s", result.MessageKey)
	}
	views, daily, _ := svc.Counts()
	if views != 0 || daily != 0 {
		t.Fatalf("confirmed reset should empty both tables, got %d/%d", views, daily)
	}
	if len(refresher.reasons) != 1 || refresher.reasons[0] != "visit_reset" {
		t.Fatalf("refresh reasons want [visit_reset] got %v", refresher.reasons)
	}

	// 空表再次清空返回 0
	again, err := svc.Reset(context.Background(), true)
	if err != nil {
		t.Fatalf("second reset failed: %v", err)
	}
	if again.PageViews != 0 || again.DailyAggregates != 0 {
		t.Fatalf("second reset want 0/0 got %d/%d", again.PageViews, again.DailyAggregates)
	}
}

func TestVisitAdminListDailyVisits(t *testing.T) {
	db := openServiceTestDB(t)
	seedVisits(t, db)
	svc := NewVisitAdminService(repository.NewVisitRepository(db), nil, nil, nil)

	rows, total, err := svc.ListDailyVisits(repository.DailyVisitListFilter{Page: 1, PageSize: 20, DateFrom: "2026-10-16"})
	if err != nil {
		t.Fatalf("list daily visits failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Date != "2026-10-16" {
		t.Fatalf("want only 2026-10-16 got total=%d rows=%+v", total, rows)
	}
}
