// Package eventbus 实现进程内事件总线
//
// 提供按主题名的事件发布/订阅机制，支持：
//   - 多订阅者
//   - 每主题有界队列与溢出策略
//   - 多工作协程异步分发（主题内保序）
//   - 并发安全
//   - 发布日志（可选，追加到 EventLog）
//
// # 热语义
//
// 与流核心的终态重放规则不同，总线天然是热的：
// 主题没有订阅者时发布的值直接丢弃（无重放缓冲），
// 这是约定行为而非缺陷；迟到订阅者收不到早先发布的值。
//
// # 快速开始
//
//	// 创建总线
//	bus := eventbus.New(nil)
//	defer bus.Close()
//
//	// 订阅主题
//	sub, _ := bus.Subscribe("orders.created", stream.OnNext(func(v any) {
//	    // 处理事件
//	}))
//	defer sub.Unsubscribe()
//
//	// 发布事件
//	bus.Publish("orders.created", order)
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    eventbus.Module(),
//	    fx.Invoke(func(bus pkgif.EventBus) {
//	        sub, _ := bus.Subscribe("orders.created", observer)
//	        // ...
//	    }),
//	)
//
// # 保序
//
// 同一主题内事件按发布顺序投递：每个主题任意时刻至多有一个
// 在途分发任务，分发任务按序排空主题队列后让出工作协程。
// 不同主题之间无顺序保证。
//
// # 并发安全
//
// 主题表使用 sync.RWMutex 保护；
// 订阅者集合复用流核心的快照投递与活跃标记；
// 队列溢出计数使用 atomic。
//
// # 架构定位
//
// Tier: Core Layer Level 3
//
// 依赖关系：
//   - 依赖：pkg/interfaces, internal/core/stream, internal/core/scheduler,
//     internal/core/metrics
//   - 被依赖：根包 reactive
package eventbus
