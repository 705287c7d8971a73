// Package scheduler 实现异步通知调度器
//
// 调度器持有有界工作队列和固定数量的工作协程，
// 将观察者通知从发射线程解耦到工作协程执行。
//
// # 状态机
//
//	Idle ──Start──▶ Running ──Drain──▶ Draining ──(队列排空)──▶ Stopped
//	                  │
//	                  └────Stop────▶ Stopped（丢弃剩余任务）
//
// # 溢出策略
//
//   - PolicyBlock（默认）：队列满时阻塞提交者，避免静默数据丢失
//   - PolicyDropOldest：队列满时丢弃最旧任务，面向低延迟场景显式选择；
//     丢弃通过指标计数上报，不会作为错误抛给提交者
//
// # 快速开始
//
//	sched := scheduler.New(
//	    pkgif.Workers(4),
//	    pkgif.QueueSize(256),
//	)
//	if err := sched.Start(); err != nil {
//	    return err
//	}
//	defer sched.Stop()
//
//	sched.Submit(func() { /* 通知任务 */ })
//
// # 架构定位
//
// Tier: Core Layer Level 1（无内部依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces
//   - 被依赖：eventbus
package scheduler
