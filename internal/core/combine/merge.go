package combine

import (
	"sync"

	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Merge
// ============================================================================

// Merge 创建交错合并多个来源的流
//
// 任一来源的值按到达顺序立即转发，来源之间无顺序保证。
// 所有来源都完成后才转发完成信号；
// 任一来源出错时立即转发该错误并取消其余来源的订阅。
func Merge[T any](sources ...pkgif.Observable[T]) pkgif.Observable[T] {
	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		if len(sources) == 0 {
			downstream.OnComplete()
			return stream.Closed()
		}

		st := &mergeState[T]{
			downstream: downstream,
			remaining:  len(sources),
		}

		for _, source := range sources {
			if st.finished() {
				break
			}
			sub := source.Subscribe(&mergeObserver[T]{state: st})
			st.track(sub)
		}

		return stream.NewSubscription(st.cancelAll)
	})
}

// mergeState 合并共享状态
//
// emitMu 将多个来源的并发通知串行化为单一下游序列，
// mu 只保护内部状态。投递期间不持有 mu，
// 下游在回调中退订走 cancelAll，只需 mu，不会与投递互锁。
type mergeState[T any] struct {
	emitMu     sync.Mutex
	mu         sync.Mutex
	downstream pkgif.Observer[T]
	remaining  int
	done       bool
	subs       []pkgif.Subscription
}

// finished 返回是否已终止
func (s *mergeState[T]) finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// track 记录来源订阅；已终止时立即取消
func (s *mergeState[T]) track(sub pkgif.Subscription) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// cancelAll 终止并取消全部来源订阅
func (s *mergeState[T]) cancelAll() {
	s.mu.Lock()
	s.done = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// mergeObserver 单个来源的观察者
type mergeObserver[T any] struct {
	state *mergeState[T]
}

func (o *mergeObserver[T]) OnNext(value T) {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.finished() {
		return
	}
	s.downstream.OnNext(value)
}

func (o *mergeObserver[T]) OnError(err error) {
	s := o.state
	s.emitMu.Lock()
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.emitMu.Unlock()
		return
	}
	s.done = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	s.downstream.OnError(err)
	s.emitMu.Unlock()

	// 取消尚在途的兄弟来源
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (o *mergeObserver[T]) OnComplete() {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.remaining--
	last := s.remaining == 0
	if last {
		s.done = true
	}
	s.mu.Unlock()

	if last {
		s.downstream.OnComplete()
	}
}
