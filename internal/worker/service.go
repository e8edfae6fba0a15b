package worker

import (
	"context"
	"errors"
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultDashboardRefreshInterval = 5 * time.Minute

// Service 异步队列服务
type Service struct {
	name            string
	server          *asynq.Server
	mux             *asynq.ServeMux
	consumer        *Consumer
	refreshInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:            "worker",
		server:          server,
		mux:             mux,
		consumer:        consumer,
		refreshInterval: resolveRefreshInterval(consumer),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.DashboardService != nil {
		go s.runDashboardRefreshLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runDashboardRefreshLoop(ctx context.Context) {
	runOnce := func() {
		_ = s.consumer.refreshDashboard(ctx, "scheduled")
	}
	runOnce()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func resolveRefreshInterval(consumer *Consumer) time.Duration {
	if consumer == nil || consumer.Container == nil || consumer.Config == nil {
		return defaultDashboardRefreshInterval
	}
	seconds := consumer.Config.Dashboard.RefreshIntervalSeconds
	if seconds <= 0 {
		return defaultDashboardRefreshInterval
	}
	return time.Duration(seconds) * time.Second
}
