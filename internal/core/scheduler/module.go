package scheduler

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Scheduler pkgif.Scheduler
}

// Module 返回 Fx 模块
func Module(opts ...pkgif.SchedulerOpt) fx.Option {
	return fx.Module("scheduler",
		fx.Provide(func() Result {
			return Result{Scheduler: New(opts...)}
		}),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC        fx.Lifecycle
	Scheduler pkgif.Scheduler
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return input.Scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			// 优先排空，超时则强制停止
			if err := input.Scheduler.Drain(ctx); err != nil {
				return input.Scheduler.Stop()
			}
			return nil
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "scheduler"
	// Description 模块描述
	Description = "异步通知调度器模块，提供有界队列与工作协程池"
)
