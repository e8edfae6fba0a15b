package worker

import (
	"context"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/provider"
	"github.com/palmapernia/tp-django/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleDashboardRefreshSkipsWithoutService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewDashboardRefreshTask(queue.DashboardRefreshPayload{Reason: "visit_reset"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleDashboardRefresh(context.Background(), task); err != nil {
		t.Fatalf("expected nil error when dashboard service missing, got %v", err)
	}
}

func TestHandleDashboardRefreshRejectsMalformedPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskDashboardRefresh, []byte("{broken"))
	if err := consumer.handleDashboardRefresh(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestResolveRefreshInterval(t *testing.T) {
	if got := resolveRefreshInterval(nil); got != defaultDashboardRefreshInterval {
		t.Fatalf("nil consumer want %s got %s", defaultDashboardRefreshInterval, got)
	}
	cfg := &config.Config{Dashboard: config.DashboardConfig{RefreshIntervalSeconds: 90}}
	consumer := NewConsumer(&provider.Container{Config: cfg})
	if got := resolveRefreshInterval(consumer); got != 90*time.Second {
		t.Fatalf("interval want 90s got %s", got)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(&provider.Container{})); err == nil {
		t.Fatalf("expected error when queue disabled")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("expected error when consumer nil")
	}
}
