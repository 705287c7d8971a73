// Package interfaces 定义 go-reactive 公共接口
//
// 本文件定义 EventBus 接口，提供按主题名的事件发布订阅功能。
package interfaces

// EventBus 定义事件总线接口
//
// EventBus 是基于调度器的热流发布/订阅层：
//   - 发布时没有订阅者的主题直接丢弃值（无重放缓冲），这是约定行为
//   - 同一主题内按发布顺序投递
//   - 不同主题之间无顺序保证
type EventBus interface {
	// Publish 向主题发布事件
	//
	// 值入队后立即返回；队列满且策略为 PolicyBlock 时阻塞。
	// 主题没有订阅者时丢弃值并正常返回。
	Publish(topic string, value any) error

	// Subscribe 订阅主题事件
	//
	// 主题不存在时惰性创建。
	Subscribe(topic string, observer Observer[any], opts ...SubscriptionOpt) (Subscription, error)

	// Topics 返回当前已注册的主题名
	Topics() []string

	// Close 关闭总线
	//
	// 排空调度器后向所有主题订阅者投递完成信号。
	Close() error
}

// SubscriptionSettings 订阅设置（导出以供实现使用）
type SubscriptionSettings struct {
	// Sink 观察者回调异常上报
	Sink ErrorSink
}

// SubscriptionOpt 订阅选项函数类型
type SubscriptionOpt func(*SubscriptionSettings)

// WithObserverSink 设置观察者回调异常上报回调
func WithObserverSink(sink ErrorSink) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Sink = sink
	}
}

// BusSettings 总线设置（导出以供实现使用）
type BusSettings struct {
	// QueueSize 每个主题的有界队列容量
	QueueSize int
	// Policy 队列溢出策略
	Policy OverflowPolicy
	// Workers 内部调度器的工作协程数量（Scheduler 为空时生效）
	Workers int
	// Scheduler 外部调度器（可选）：为空时总线创建并持有自己的调度器
	Scheduler Scheduler
	// Sink 异常上报回调
	Sink ErrorSink
	// Journal 发布日志（可选）：每个发布成功的事件追加到日志
	Journal EventLog
	// Encode 日志编码函数，Journal 非空时必须提供
	Encode func(topic string, value any) ([]byte, error)
}

// BusOpt 总线选项函数类型
type BusOpt func(*BusSettings)

// BusQueueSize 设置每个主题的队列容量
func BusQueueSize(n int) BusOpt {
	return func(s *BusSettings) {
		s.QueueSize = n
	}
}

// BusPolicy 设置队列溢出策略
func BusPolicy(p OverflowPolicy) BusOpt {
	return func(s *BusSettings) {
		s.Policy = p
	}
}

// BusWorkers 设置内部调度器的工作协程数量
func BusWorkers(n int) BusOpt {
	return func(s *BusSettings) {
		s.Workers = n
	}
}

// WithScheduler 设置外部调度器
//
// 设置后总线不再持有调度器生命周期，Close 不会排空它。
func WithScheduler(sched Scheduler) BusOpt {
	return func(s *BusSettings) {
		s.Scheduler = sched
	}
}

// WithBusSink 设置总线异常上报回调
func WithBusSink(sink ErrorSink) BusOpt {
	return func(s *BusSettings) {
		s.Sink = sink
	}
}

// WithJournal 设置发布日志
//
// encode 将发布的事件编码为日志字节；总线不解释编码结果。
func WithJournal(journal EventLog, encode func(topic string, value any) ([]byte, error)) BusOpt {
	return func(s *BusSettings) {
		s.Journal = journal
		s.Encode = encode
	}
}
