package queue

import "testing"

func TestNewDashboardRefreshTask(t *testing.T) {
	task, err := NewDashboardRefreshTask(DashboardRefreshPayload{Reason: "visit_reset"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskDashboardRefresh {
		t.Fatalf("task type want %s got %s", TaskDashboardRefresh, task.Type())
	}
	payload, err := ParseDashboardRefreshPayload(task.Payload())
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Reason != "visit_reset" {
		t.Fatalf("reason want visit_reset got %s", payload.Reason)
	}
}

func TestParseDashboardRefreshPayloadEmpty(t *testing.T) {
	payload, err := ParseDashboardRefreshPayload(nil)
	if err != nil {
		t.Fatalf("parse empty payload failed: %v", err)
	}
	if payload.Reason != "scheduled" {
		t.Fatalf("reason want scheduled got %s", payload.Reason)
	}
	if _, err := ParseDashboardRefreshPayload([]byte("{bad")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	if err := client.EnqueueDashboardRefresh("test"); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
