package reactive

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-reactive/internal/core/eventbus"
	"github.com/dep2p/go-reactive/internal/core/scheduler"
)

// ============================================================================
// Fx 模块组装
// ============================================================================

// Module 返回事件总线 Fx 模块
//
// 提供 pkgif.EventBus，OnStop 时关闭总线。
// 容器内提供了 prometheus.Registerer 时指标自动注册。
func Module(opts ...BusOpt) fx.Option {
	return eventbus.Module(opts...)
}

// SchedulerModule 返回调度器 Fx 模块
//
// 提供 pkgif.Scheduler，OnStart 启动、OnStop 排空。
// 与 Module 配合使用时通过 WithScheduler 让总线共享同一调度器。
func SchedulerModule(opts ...SchedulerOpt) fx.Option {
	return scheduler.Module(opts...)
}
