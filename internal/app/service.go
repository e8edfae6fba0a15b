package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 站点进程内的长期服务（HTTP、队列 Worker）
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 并行启动服务，任一服务退出即整体停机
// 停机按注册的逆序进行：先注册的依赖方（Worker）最后停止。
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器，忽略 nil 服务
func NewRunner(services ...Service) *Runner {
	runner := &Runner{}
	for _, svc := range services {
		if svc != nil {
			runner.services = append(runner.services, svc)
		}
	}
	return runner
}

// Names 已注册服务名称，按注册顺序
func (r *Runner) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.services))
	for _, svc := range r.services {
		names = append(names, svc.Name())
	}
	return names
}

// RunWithOptions 监听系统信号并运行
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 启动全部服务并阻塞，ctx 取消视为正常退出
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan serviceExit, len(r.services))
	for _, svc := range r.services {
		go r.start(ctx, svc, log, exits)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case exit := <-exits:
		runErr = exit.err
		if log != nil {
			log.Warnw("service_exited_early", "service", exit.name, "error", exit.err)
		}
	}
	cancel()

	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	r.stopAll(stopCtx, log)

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

type serviceExit struct {
	name string
	err  error
}

func (r *Runner) start(ctx context.Context, svc Service, log *zap.SugaredLogger, exits chan<- serviceExit) {
	name := svc.Name()
	defer func() {
		if rec := recover(); rec != nil {
			if log != nil {
				log.Errorw("service_panic", "service", name, "panic", rec)
			}
			exits <- serviceExit{name: name, err: fmt.Errorf("service %s panicked: %v", name, rec)}
		}
	}()
	if log != nil {
		log.Infow("service_start", "service", name)
	}
	err := svc.Start(ctx)
	if log != nil {
		log.Infow("service_exit", "service", name)
	}
	exits <- serviceExit{name: name, err: err}
}

func (r *Runner) stopAll(ctx context.Context, log *zap.SugaredLogger) {
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(ctx); err != nil && log != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
