package eventbus

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	EventBus pkgif.EventBus
}

// Module 返回 Fx 模块
//
// Registerer 为可选依赖：容器内提供了 prometheus.Registerer 时指标自动注册。
func Module(opts ...pkgif.BusOpt) fx.Option {
	return fx.Module("eventbus",
		fx.Provide(func(in moduleInput) Result {
			return Result{EventBus: New(in.Registerer, opts...)}
		}),
		fx.Invoke(registerLifecycle),
	)
}

// moduleInput 模块输入参数
type moduleInput struct {
	fx.In

	Registerer prometheus.Registerer `optional:"true"`
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC       fx.Lifecycle
	EventBus pkgif.EventBus
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 总线在构造时即可用，无需特殊启动逻辑
			return nil
		},
		OnStop: func(_ context.Context) error {
			return input.EventBus.Close()
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
	Name = "eventbus"
	// Description 模块描述
	Description = "事件总线模块，提供按主题名的异步发布/订阅机制"
)
