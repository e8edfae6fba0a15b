package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type testEnvelope struct {
	StatusCode int               `json:"status_code"`
	Msg        string            `json:"msg"`
	Data       map[string]string `json:"data"`
}

func newTestContext(url string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, url, nil)
	return c, w
}

func TestFailRendersLocalizedMessage(t *testing.T) {
	c, w := newTestContext("/?lang=fr")
	c.Set(RequestIDKey, "req-1")

	Fail(c, ErrForbidden)

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeForbidden {
		t.Fatalf("status_code want 403 got %d", resp.StatusCode)
	}
	if resp.Msg != "Vous n'avez pas la permission d'effectuer cette action." {
		t.Fatalf("french message expected, got %q", resp.Msg)
	}
	if resp.Data["request_id"] != "req-1" {
		t.Fatalf("request_id want req-1 got %v", resp.Data)
	}
}

func TestFailFormatsArgs(t *testing.T) {
	c, w := newTestContext("/")
	Fail(c, NewError(CodeTooManyRequests, "error.login_too_many", 42))

	var resp testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeTooManyRequests || resp.Msg != "Too many login attempts, retry in 42 seconds." {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Data != nil {
		t.Fatalf("data should be null without request id, got %v", resp.Data)
	}
}

func TestPageComputesTotalPages(t *testing.T) {
	c, w := newTestContext("/")
	Page(c, []int{1, 2}, 1, 2, 5)

	var resp struct {
		StatusCode int        `json:"status_code"`
		Data       []int      `json:"data"`
		Pagination Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeOK || resp.Pagination.TotalPage != 3 || len(resp.Data) != 2 {
		t.Fatalf("unexpected page response: %+v", resp)
	}
	if got := NewPagination(1, 0, 10); got.TotalPage != 0 {
		t.Fatalf("zero page size should not divide, got %d", got.TotalPage)
	}
	if got := NewPagination(1, 20, 41); got.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", got.TotalPage)
	}
}

func TestAppErrorMatchingAndUnwrap(t *testing.T) {
	inner := http.ErrNoCookie
	err := fmt.Errorf("load article: %w", ErrNotFound.Wrap(inner))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrapped not found should match ErrNotFound")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("not found should not match ErrForbidden")
	}
	if !errors.Is(err, inner) {
		t.Fatalf("original error should stay reachable")
	}
	if ErrNotFound.Err != nil {
		t.Fatalf("Wrap must not mutate the shared error")
	}
}
