package cache

import (
	"context"
	"testing"

	"github.com/palmapernia/tp-django/internal/models"
)

func TestCacheDisabledIsNoop(t *testing.T) {
	Use(nil, "")
	ctx := context.Background()

	if Enabled() {
		t.Fatalf("cache should be disabled without client")
	}
	if err := SetJSON(ctx, "k", map[string]int{"a": 1}, 0); err != nil {
		t.Fatalf("set json should be noop, got %v", err)
	}
	var dest map[string]int
	hit, err := GetJSON(ctx, "k", &dest)
	if err != nil || hit {
		t.Fatalf("get json should miss, hit=%v err=%v", hit, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping should be noop, got %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	Use(nil, "site")
	if got := buildKey("dashboard:overview"); got != "site:dashboard:overview" {
		t.Fatalf("unexpected key: %s", got)
	}
	Use(nil, " ")
	if got := buildKey(""); got != "tp" {
		t.Fatalf("empty key should fall back to prefix, got %s", got)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	user := &models.User{ID: 7, Username: "alice", Status: "active", TokenVersion: 3, IsStaff: true}
	state := BuildUserAuthState(user)
	if state.UserID != 7 || state.TokenVersion != 3 || !state.IsStaff || state.Username != "alice" {
		t.Fatalf("unexpected state: %+v", state)
	}
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should produce nil state")
	}
}
