package stream

import (
	"fmt"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
	"github.com/dep2p/go-reactive/pkg/lib/log"
)

var logger = log.Logger("core/stream")

// ============================================================================
// Stream 实现
// ============================================================================

// Stream 生产者驱动的多播流
//
// 持有有序的观察者注册列表和状态标记。
// 进入 Completed/Errored 终态后列表被原子清空，不再接受发射。
type Stream[T any] struct {
	// emitMu 串行化发射路径，保证投递顺序与发射顺序一致
	emitMu sync.Mutex

	// mu 保护观察者列表与状态
	mu          sync.Mutex
	state       pkgif.StreamState
	regs        []*registration[T]
	terminalErr error

	sink pkgif.ErrorSink
}

// Option 流选项函数类型
type Option func(*config)

// config 流配置
type config struct {
	sink pkgif.ErrorSink
}

// WithSink 设置观察者回调异常上报回调
func WithSink(sink pkgif.ErrorSink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// New 创建新的流
func New[T any](opts ...Option) *Stream[T] {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Stream[T]{
		state: pkgif.StreamIdle,
		sink:  cfg.sink,
	}
}

// ============================================================================
// Observable 接口实现
// ============================================================================

// Subscribe 注册观察者
//
// 流已终止时只向新观察者重放终态通知（不重放历史值），
// 返回的订阅已处于非活跃状态。
func (s *Stream[T]) Subscribe(observer pkgif.Observer[T]) pkgif.Subscription {
	s.mu.Lock()

	switch s.state {
	case pkgif.StreamCompleted:
		s.mu.Unlock()
		s.safeCall(func() { observer.OnComplete() })
		return Closed()

	case pkgif.StreamErrored:
		err := s.terminalErr
		s.mu.Unlock()
		s.safeCall(func() { observer.OnError(err) })
		return Closed()
	}

	if s.state == pkgif.StreamIdle {
		s.state = pkgif.StreamActive
	}

	reg := &registration[T]{observer: observer}
	reg.active.Store(true)
	s.regs = append(s.regs, reg)
	s.mu.Unlock()

	return NewSubscription(func() {
		reg.active.Store(false)
		s.remove(reg)
	})
}

// ============================================================================
// Emitter 接口实现
// ============================================================================

// EmitNext 向所有活跃观察者投递一个值
//
// 流不处于 Active 状态时静默丢弃（包括终态后的发射）。
func (s *Stream[T]) EmitNext(value T) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.state != pkgif.StreamActive {
		s.mu.Unlock()
		return
	}
	regs := append([]*registration[T](nil), s.regs...)
	s.mu.Unlock()

	// 投递在锁外进行，取消订阅通过活跃标记同步生效
	for _, reg := range regs {
		if !reg.active.Load() {
			continue
		}
		obs := reg.observer
		s.safeCall(func() { obs.OnNext(value) })
	}
}

// EmitError 发射终止错误
//
// 转入 Errored 状态，向每个观察者投递一次 OnError，
// 然后原子清空观察者列表。已终止的流上调用是无操作。
func (s *Stream[T]) EmitError(err error) {
	s.terminate(pkgif.StreamErrored, err)
}

// EmitComplete 发射完成信号
//
// 转入 Completed 状态，向每个观察者投递一次 OnComplete，
// 然后原子清空观察者列表。已终止的流上调用是无操作。
func (s *Stream[T]) EmitComplete() {
	s.terminate(pkgif.StreamCompleted, nil)
}

// terminate 进入终态并投递终态通知
func (s *Stream[T]) terminate(state pkgif.StreamState, err error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.state == pkgif.StreamCompleted || s.state == pkgif.StreamErrored {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.terminalErr = err
	regs := s.regs
	s.regs = nil
	s.mu.Unlock()

	for _, reg := range regs {
		// Swap 保证每个观察者最多收到一次终态通知
		if !reg.active.Swap(false) {
			continue
		}
		obs := reg.observer
		if state == pkgif.StreamErrored {
			s.safeCall(func() { obs.OnError(err) })
		} else {
			s.safeCall(func() { obs.OnComplete() })
		}
	}
}

// ============================================================================
// 状态查询
// ============================================================================

// State 返回当前状态
func (s *Stream[T]) State() pkgif.StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Observers 返回当前活跃观察者数量
func (s *Stream[T]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}

// Err 返回终止错误（仅 Errored 状态下非空）
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminalErr
}

// ============================================================================
// 内部方法
// ============================================================================

// remove 从列表中移除注册
func (s *Stream[T]) remove(reg *registration[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.regs {
		if r == reg {
			s.regs = append(s.regs[:i], s.regs[i+1:]...)
			break
		}
	}
}

// safeCall 执行观察者回调并隔离 panic
//
// 单个观察者的失败不得中断对其余观察者的投递，
// 也不得传播到发射者。
func (s *Stream[T]) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("observer callback panic: %v", r)
			if s.sink != nil {
				s.sink(err)
				return
			}
			logger.Error("observer callback panic",
				"panic", fmt.Sprint(r))
		}
	}()

	fn()
}

// registration 观察者注册项
//
// active 标记是投递的门闸：取消订阅先翻转标记再摘除注册，
// 使取消在返回后立即生效，即使另一线程的投递已在途。
type registration[T any] struct {
	observer pkgif.Observer[T]
	active   atomic.Bool
}

// 接口契约检查
var _ pkgif.Stream[int] = (*Stream[int])(nil)
