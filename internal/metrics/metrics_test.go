package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveVisitCountsByOutcome(t *testing.T) {
	r := New()
	r.ObserveVisit("recorded")
	r.ObserveVisit("recorded")
	r.ObserveVisit("failed")

	if got := testutil.ToFloat64(r.visits.WithLabelValues("recorded")); got != 2 {
		t.Fatalf("recorded want 2 got %v", got)
	}
	if got := testutil.ToFloat64(r.visits.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed want 1 got %v", got)
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	r.ObserveVisit("recorded")
	r.ObserveReset(true)
	r.ObserveVote()
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New()
	r.ObserveVote()

	engine := gin.New()
	engine.Use(r.Middleware())
	engine.GET("/metrics", gin.WrapH(r.Handler()))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "tp_site_poll_votes_total 1") {
		t.Fatalf("metrics body should contain vote counter, got %s", w.Body.String())
	}
}
