// Package interfaces 定义 go-reactive 公共接口
//
// 本文件定义响应式流的核心契约：Observer、Observable、Subscription。
package interfaces

// Observer 定义观察者接口
//
// 观察者通过三通道契约接收通知：
//   - OnNext: 接收一个值
//   - OnError: 接收终止错误（之后不再有任何通知）
//   - OnComplete: 接收完成信号（之后不再有任何通知）
//
// 终态不变式：OnError 或 OnComplete 被调用后，
// 该订阅上不会再向此观察者投递任何通知。
type Observer[T any] interface {
	// OnNext 接收下一个值
	OnNext(value T)

	// OnError 接收终止错误
	OnError(err error)

	// OnComplete 接收完成信号
	OnComplete()
}

// Observable 定义可观察流接口
//
// Observable 是推送式的值来源。默认语义为冷流：
// 每次 Subscribe 获得独立的管线实例；
// 已终止的流只向迟到订阅者重放终态通知，不重放历史值。
type Observable[T any] interface {
	// Subscribe 注册观察者，返回订阅句柄
	Subscribe(observer Observer[T]) Subscription
}

// Subscription 定义订阅句柄接口
//
// Subscription 是观察者与流之间绑定关系的唯一强引用，
// 取消订阅是移除观察者的唯一途径。
type Subscription interface {
	// ID 返回订阅的唯一标识
	ID() string

	// Unsubscribe 取消订阅
	//
	// 幂等：多次调用无额外效果，永不报错。
	// 同步生效：返回后不会再有任何通知到达对应观察者。
	Unsubscribe()

	// Active 返回订阅是否仍然有效
	Active() bool
}

// Emitter 定义发射端接口
//
// 生产者通过 Emitter 向流推送值与终态通知。
type Emitter[T any] interface {
	// EmitNext 发射一个值
	//
	// 流不处于 Active 状态时静默丢弃。
	EmitNext(value T)

	// EmitError 发射终止错误并转入 Errored 状态
	//
	// 已终止的流上再次调用是无操作。
	EmitError(err error)

	// EmitComplete 发射完成信号并转入 Completed 状态
	//
	// 已终止的流上再次调用是无操作。
	EmitComplete()
}

// StreamState 流状态
type StreamState int32

const (
	// StreamIdle 已创建，尚无订阅者
	StreamIdle StreamState = iota
	// StreamActive 有订阅者，接受发射
	StreamActive
	// StreamCompleted 已正常完成（终态）
	StreamCompleted
	// StreamErrored 已出错终止（终态）
	StreamErrored
)

// String 返回状态名称
func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamActive:
		return "active"
	case StreamCompleted:
		return "completed"
	case StreamErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Stream 定义生产者驱动的流接口
//
// Stream 同时具备订阅端与发射端能力，
// 是生产者驱动多播核心的公共视图。
type Stream[T any] interface {
	Observable[T]
	Emitter[T]

	// State 返回当前状态
	State() StreamState

	// Observers 返回当前活跃观察者数量
	Observers() int
}

// Subject 定义热流接口
//
// Subject 既是 Observable 又是 Observer，
// 用于显式共享上游管线（热语义）。
type Subject[T any] interface {
	Observable[T]
	Observer[T]
	Emitter[T]
}

// Pair 表示 Zip 组合器按索引配对的一组值
type Pair[A, B any] struct {
	First  A
	Second B
}

// ErrorSink 定义错误汇报回调
//
// 观察者回调中的 panic、调度任务中的异常等不会中断投递，
// 统一通过 ErrorSink 上报。
type ErrorSink func(err error)
