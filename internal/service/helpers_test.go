package service

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/palmapernia/tp-django/internal/models"

	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, nil)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = previous
		_ = sqlDB.Close()
	})
	return db
}

func createServiceTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

// cookieJar 测试用 Cookie 读取器
type cookieJar map[string]string

func (j cookieJar) Cookie(name string) (string, error) {
	if value, ok := j[name]; ok {
		return value, nil
	}
	return "", http.ErrNoCookie
}

type countingObserver struct {
	visits map[string]int
	resets []bool
	votes  int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{visits: map[string]int{}}
}

func (o *countingObserver) ObserveVisit(outcome string) { o.visits[outcome]++ }
func (o *countingObserver) ObserveReset(confirmed bool) { o.resets = append(o.resets, confirmed) }
func (o *countingObserver) ObserveVote()                { o.votes++ }
