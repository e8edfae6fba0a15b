package worker

import (
	"context"

	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/provider"
	"github.com/palmapernia/tp-django/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDashboardRefresh, c.handleDashboardRefresh)
}

func (c *Consumer) handleDashboardRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_dashboard_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseDashboardRefreshPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_dashboard_refresh_unmarshal_failed", "error", err)
		return err
	}
	return c.refreshDashboard(ctx, payload.Reason)
}

func (c *Consumer) refreshDashboard(ctx context.Context, reason string) error {
	if c == nil || c.Container == nil || c.DashboardService == nil {
		logger.Debugw("worker_dashboard_refresh_skip_service_nil", "reason", reason)
		return nil
	}
	overview, err := c.DashboardService.Refresh(ctx)
	if err != nil {
		logger.Warnw("worker_dashboard_refresh_failed", "reason", reason, "error", err)
		return err
	}
	logger.Debugw("worker_dashboard_refreshed",
		"reason", reason,
		"date", overview.Date,
		"total_visits", overview.TotalVisits,
		"today_visits", overview.TodayVisits,
	)
	return nil
}
