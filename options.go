package reactive

import (
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// 调度器选项
// ============================================================================

// Workers 设置工作协程数量
func Workers(n int) SchedulerOpt {
	return pkgif.Workers(n)
}

// QueueSize 设置任务队列容量
func QueueSize(n int) SchedulerOpt {
	return pkgif.QueueSize(n)
}

// WithPolicy 设置队列溢出策略
func WithPolicy(p OverflowPolicy) SchedulerOpt {
	return pkgif.WithPolicy(p)
}

// WithSchedulerSink 设置调度器的错误通知回调
func WithSchedulerSink(sink ErrorSink) SchedulerOpt {
	return pkgif.WithSchedulerSink(sink)
}

// ============================================================================
// 总线选项
// ============================================================================

// BusQueueSize 设置每个主题的队列容量
func BusQueueSize(n int) BusOpt {
	return pkgif.BusQueueSize(n)
}

// BusPolicy 设置主题队列的溢出策略
func BusPolicy(p OverflowPolicy) BusOpt {
	return pkgif.BusPolicy(p)
}

// BusWorkers 设置总线自有调度器的工作协程数量
func BusWorkers(n int) BusOpt {
	return pkgif.BusWorkers(n)
}

// WithScheduler 使用外部调度器，生命周期由调用方管理
func WithScheduler(sched Scheduler) BusOpt {
	return pkgif.WithScheduler(sched)
}

// WithBusSink 设置总线的错误通知回调
func WithBusSink(sink ErrorSink) BusOpt {
	return pkgif.WithBusSink(sink)
}

// WithJournal 设置发布日志：每个发布成功的事件经 encode 编码后追加到 journal
func WithJournal(journal EventLog, encode func(topic string, value any) ([]byte, error)) BusOpt {
	return pkgif.WithJournal(journal, encode)
}

// WithObserverSink 设置单个订阅的错误通知回调
func WithObserverSink(sink ErrorSink) SubscriptionOpt {
	return pkgif.WithObserverSink(sink)
}
