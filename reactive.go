package reactive

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-reactive/internal/core/combine"
	"github.com/dep2p/go-reactive/internal/core/eventbus"
	"github.com/dep2p/go-reactive/internal/core/eventlog"
	"github.com/dep2p/go-reactive/internal/core/operator"
	"github.com/dep2p/go-reactive/internal/core/scheduler"
	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// 类型再导出
// ============================================================================

type (
	// Subscription 订阅句柄
	Subscription = pkgif.Subscription
	// Scheduler 异步通知调度器
	Scheduler = pkgif.Scheduler
	// EventBus 按主题名的事件总线
	EventBus = pkgif.EventBus
	// EventLog 追加/重放日志
	EventLog = pkgif.EventLog
	// LogEntry 日志条目
	LogEntry = pkgif.LogEntry
	// Task 调度任务
	Task = pkgif.Task
	// ErrorSink 错误通知回调
	ErrorSink = pkgif.ErrorSink
	// StreamState 流状态
	StreamState = pkgif.StreamState
	// SchedulerState 调度器状态
	SchedulerState = pkgif.SchedulerState
	// OverflowPolicy 队列溢出策略
	OverflowPolicy = pkgif.OverflowPolicy
	// SchedulerOpt 调度器配置选项
	SchedulerOpt = pkgif.SchedulerOpt
	// BusOpt 总线配置选项
	BusOpt = pkgif.BusOpt
	// SubscriptionOpt 订阅配置选项
	SubscriptionOpt = pkgif.SubscriptionOpt
	// StreamOption 流配置选项
	StreamOption = stream.Option
	// OperatorOption 时间类算子配置选项
	OperatorOption = operator.Opt
)

// 状态与策略常量
const (
	StreamIdle      = pkgif.StreamIdle
	StreamActive    = pkgif.StreamActive
	StreamCompleted = pkgif.StreamCompleted
	StreamErrored   = pkgif.StreamErrored

	SchedulerIdle     = pkgif.SchedulerIdle
	SchedulerRunning  = pkgif.SchedulerRunning
	SchedulerDraining = pkgif.SchedulerDraining
	SchedulerStopped  = pkgif.SchedulerStopped

	PolicyBlock      = pkgif.PolicyBlock
	PolicyDropOldest = pkgif.PolicyDropOldest
)

// ============================================================================
// 流构造
// ============================================================================

// NewStream 创建新的多播流
func NewStream[T any](opts ...StreamOption) pkgif.Stream[T] {
	return stream.New[T](opts...)
}

// NewSubject 创建可观察亦可作为观察者的流
func NewSubject[T any](opts ...StreamOption) pkgif.Subject[T] {
	return stream.NewSubject[T](opts...)
}

// WithStreamSink 设置流的错误通知回调
func WithStreamSink(sink ErrorSink) StreamOption {
	return stream.WithSink(sink)
}

// NewObserver 从回调函数构造观察者，nil 回调被忽略
func NewObserver[T any](next func(T), err func(error), complete func()) pkgif.Observer[T] {
	return stream.NewObserver(next, err, complete)
}

// OnNext 构造只关心值的观察者
func OnNext[T any](next func(T)) pkgif.Observer[T] {
	return stream.OnNext(next)
}

// FromSlice 创建按订阅独立重放切片值的冷流
func FromSlice[T any](values []T) pkgif.Observable[T] {
	return stream.FromSlice(values)
}

// Just 创建只发射给定值的冷流
func Just[T any](values ...T) pkgif.Observable[T] {
	return stream.Just(values...)
}

// Range 创建发射 [start, start+count) 整数序列的冷流
func Range(start, count int) pkgif.Observable[int] {
	return stream.Range(start, count)
}

// ============================================================================
// 变换算子
// ============================================================================

// Map 创建逐值变换流
func Map[T, U any](source pkgif.Observable[T], fn func(T) (U, error)) pkgif.Observable[U] {
	return operator.Map(source, fn)
}

// Filter 创建谓词过滤流
func Filter[T any](source pkgif.Observable[T], predicate func(T) bool) pkgif.Observable[T] {
	return operator.Filter(source, predicate)
}

// Take 创建只转发前 n 个值的流
func Take[T any](source pkgif.Observable[T], n int) pkgif.Observable[T] {
	return operator.Take(source, n)
}

// Skip 创建跳过前 n 个值的流
func Skip[T any](source pkgif.Observable[T], n int) pkgif.Observable[T] {
	return operator.Skip(source, n)
}

// Distinct 创建按订阅去重的流
func Distinct[T comparable](source pkgif.Observable[T]) pkgif.Observable[T] {
	return operator.Distinct(source)
}

// Debounce 创建静默期过滤流
func Debounce[T any](source pkgif.Observable[T], delay time.Duration, opts ...OperatorOption) pkgif.Observable[T] {
	return operator.Debounce(source, delay, opts...)
}

// Throttle 创建窗口限流流
func Throttle[T any](source pkgif.Observable[T], interval time.Duration, opts ...OperatorOption) pkgif.Observable[T] {
	return operator.Throttle(source, interval, opts...)
}

// WithClock 注入时钟，时间类算子的测试入口
func WithClock(c clock.Clock) OperatorOption {
	return operator.WithClock(c)
}

// ============================================================================
// 组合器
// ============================================================================

// Merge 创建交错合并多个来源的流
func Merge[T any](sources ...pkgif.Observable[T]) pkgif.Observable[T] {
	return combine.Merge(sources...)
}

// Concat 创建顺序衔接多个来源的流
func Concat[T any](sources ...pkgif.Observable[T]) pkgif.Observable[T] {
	return combine.Concat(sources...)
}

// Zip 创建按索引对齐配对两个来源的流
func Zip[A, B any](first pkgif.Observable[A], second pkgif.Observable[B]) pkgif.Observable[pkgif.Pair[A, B]] {
	return combine.Zip(first, second)
}

// SwitchMap 创建切换映射流
func SwitchMap[T, U any](source pkgif.Observable[T], fn func(T) pkgif.Observable[U]) pkgif.Observable[U] {
	return combine.SwitchMap(source, fn)
}

// ============================================================================
// 调度器与总线
// ============================================================================

// NewScheduler 创建调度器（Idle 状态，需调用 Start）
func NewScheduler(opts ...SchedulerOpt) Scheduler {
	return scheduler.New(opts...)
}

// NewBus 创建事件总线，指标不注册
func NewBus(opts ...BusOpt) EventBus {
	return eventbus.New(nil, opts...)
}

// NewBusWithMetrics 创建事件总线并将指标注册到 reg
func NewBusWithMetrics(reg prometheus.Registerer, opts ...BusOpt) EventBus {
	return eventbus.New(reg, opts...)
}

// ============================================================================
// 事件日志
// ============================================================================

// NewMemoryLog 创建内存事件日志
func NewMemoryLog() EventLog {
	return eventlog.NewMemory()
}

// OpenBadgerLog 打开（或创建）位于 dir 的持久化事件日志
func OpenBadgerLog(dir string) (EventLog, error) {
	return eventlog.OpenBadger(dir)
}
