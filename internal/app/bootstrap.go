package app

import (
	"errors"

	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/provider"
	"github.com/palmapernia/tp-django/internal/router"
	"github.com/palmapernia/tp-django/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// Worker 先注册，停机时在 HTTP 之后停止
	// all 模式下队列未启用时只运行 HTTP
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Warnw("app_worker_skipped", "reason", "queue_disabled")
	}

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	if len(services) == 0 {
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer closeResources(container)

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "services", runner.Names())
	return RunWithOptions(runner, opts)
}

func closeResources(container *provider.Container) {
	if container != nil && container.QueueClient != nil {
		if err := container.QueueClient.Close(); err != nil {
			logger.Warnw("app_queue_client_close_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("app_redis_close_failed", "error", err)
	}
}
