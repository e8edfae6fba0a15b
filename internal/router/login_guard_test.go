package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"

	"github.com/gin-gonic/gin"
)

type memoryLoginStore struct {
	max      int
	block    time.Duration
	failures map[string]int
	blocked  map[string]time.Duration
	err      error
}

func newMemoryLoginStore(max int, block time.Duration) *memoryLoginStore {
	return &memoryLoginStore{
		max:      max,
		block:    block,
		failures: map[string]int{},
		blocked:  map[string]time.Duration{},
	}
}

func (s *memoryLoginStore) Blocked(_ context.Context, key string) (time.Duration, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.blocked[key], nil
}

func (s *memoryLoginStore) RecordFailure(_ context.Context, key string) (bool, error) {
	s.failures[key]++
	if s.failures[key] >= s.max {
		s.blocked[key] = s.block
		delete(s.failures, key)
		return true, nil
	}
	return false, nil
}

func (s *memoryLoginStore) Reset(_ context.Context, key string) error {
	delete(s.failures, key)
	return nil
}

// loginGuardEngine 密码为 secret 视为登录成功
func loginGuardEngine(guard *LoginGuard) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	handled := 0
	r := gin.New()
	r.POST("/login", guard.Middleware(), func(c *gin.Context) {
		handled++
		var body struct {
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&body)
		if body.Password == "secret" {
			c.Set(constants.ContextKeyLoginOutcome, constants.LoginLogStatusSuccess)
			c.JSON(http.StatusOK, gin.H{"status_code": 0})
			return
		}
		c.Set(constants.ContextKeyLoginOutcome, constants.LoginLogFailReasonInvalidCredential)
		c.JSON(http.StatusOK, gin.H{"status_code": 401})
	})
	return r, &handled
}

func postLogin(r *gin.Engine, username, password string) envelope {
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.9:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp envelope
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestLoginGuardBlocksAfterRepeatedFailures(t *testing.T) {
	store := newMemoryLoginStore(3, 90*time.Second)
	blockedCalls := 0
	guard := &LoginGuard{store: store, blockSeconds: 90, onBlocked: func(*gin.Context) { blockedCalls++ }}
	r, handled := loginGuardEngine(guard)

	for i := 0; i < 3; i++ {
		if resp := postLogin(r, "Alice", "wrong"); resp.StatusCode != 401 {
			t.Fatalf("attempt %d want 401 got %d", i+1, resp.StatusCode)
		}
	}
	if store.blocked["alice|10.0.0.9"] == 0 {
		t.Fatalf("key should be blocked after 3 failures, got %v", store.blocked)
	}

	resp := postLogin(r, "ALICE", "secret")
	if resp.StatusCode != 429 {
		t.Fatalf("blocked login want 429 got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Msg, "90") {
		t.Fatalf("message should carry wait seconds, got %q", resp.Msg)
	}
	if *handled != 3 {
		t.Fatalf("blocked request should not reach handler, handled=%d", *handled)
	}
	if blockedCalls != 1 {
		t.Fatalf("onBlocked want 1 call got %d", blockedCalls)
	}

	if resp := postLogin(r, "bob", "secret"); resp.StatusCode != 0 {
		t.Fatalf("other username should pass, got %d", resp.StatusCode)
	}
}

func TestLoginGuardSuccessResetsFailures(t *testing.T) {
	store := newMemoryLoginStore(3, time.Minute)
	r, _ := loginGuardEngine(&LoginGuard{store: store, blockSeconds: 60})

	postLogin(r, "carol", "wrong")
	postLogin(r, "carol", "wrong")
	if resp := postLogin(r, "carol", "secret"); resp.StatusCode != 0 {
		t.Fatalf("login want success got %d", resp.StatusCode)
	}
	if store.failures["carol|10.0.0.9"] != 0 {
		t.Fatalf("success should clear failures, got %d", store.failures["carol|10.0.0.9"])
	}
	postLogin(r, "carol", "wrong")
	postLogin(r, "carol", "wrong")
	if resp := postLogin(r, "carol", "secret"); resp.StatusCode != 0 {
		t.Fatalf("two fresh failures should not block, got %d", resp.StatusCode)
	}
}

func TestLoginGuardPassesThroughWhenStoreFails(t *testing.T) {
	store := newMemoryLoginStore(1, time.Minute)
	store.err = errors.New("redis down")
	r, handled := loginGuardEngine(&LoginGuard{store: store, blockSeconds: 60})

	if resp := postLogin(r, "dave", "secret"); resp.StatusCode != 0 {
		t.Fatalf("store failure should not block login, got %d", resp.StatusCode)
	}
	if *handled != 1 {
		t.Fatalf("handler want 1 call got %d", *handled)
	}
}

func TestNewLoginGuardWithoutRedisIsPassThrough(t *testing.T) {
	guard := NewLoginGuard(nil, "tp:login", config.LoginRateLimitConfig{WindowSeconds: 60, MaxAttempts: 1, BlockSeconds: 60}, nil)
	if guard.store != nil {
		t.Fatalf("guard without redis should have no store")
	}
	r, handled := loginGuardEngine(guard)
	for i := 0; i < 3; i++ {
		postLogin(r, "erin", "wrong")
	}
	if *handled != 3 {
		t.Fatalf("pass-through guard should let every attempt in, handled=%d", *handled)
	}
}
