package combine

import (
	"sync"

	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Zip
// ============================================================================

// Zip 创建按索引对齐配对两个来源的流
//
// 按来源分别缓冲，两侧缓冲各有至少一个未消费元素时
// 各消费一个并发射配对值。
// 任一来源完成且其缓冲耗尽时完成；任一来源出错立即转发并取消两侧订阅。
func Zip[A, B any](first pkgif.Observable[A], second pkgif.Observable[B]) pkgif.Observable[pkgif.Pair[A, B]] {
	return stream.ObservableFunc[pkgif.Pair[A, B]](func(downstream pkgif.Observer[pkgif.Pair[A, B]]) pkgif.Subscription {
		st := &zipState[A, B]{downstream: downstream}

		subA := first.Subscribe(&zipObserverA[A, B]{state: st})
		st.track(subA)
		if !st.finished() {
			subB := second.Subscribe(&zipObserverB[A, B]{state: st})
			st.track(subB)
		}

		return stream.NewSubscription(st.cancelAll)
	})
}

// zipState 配对共享状态
//
// emitMu 串行化下游投递，mu 只保护缓冲与订阅状态；
// 投递期间不持有 mu，下游在回调中退订不会与投递互锁。
type zipState[A, B any] struct {
	emitMu     sync.Mutex
	mu         sync.Mutex
	downstream pkgif.Observer[pkgif.Pair[A, B]]
	bufA       []A
	bufB       []B
	doneA      bool
	doneB      bool
	done       bool
	subs       []pkgif.Subscription
}

// finished 返回是否已终止
func (s *zipState[A, B]) finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// track 记录来源订阅；已终止时立即取消
func (s *zipState[A, B]) track(sub pkgif.Subscription) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// cancelAll 终止并取消两侧订阅
func (s *zipState[A, B]) cancelAll() {
	s.mu.Lock()
	s.done = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// fail 转发错误并终止
func (s *zipState[A, B]) fail(err error) {
	s.emitMu.Lock()
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.emitMu.Unlock()
		return
	}
	subs := s.terminateLocked()
	s.mu.Unlock()

	s.downstream.OnError(err)
	s.emitMu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// exhausted 检查完成条件：任一侧已完成且其缓冲耗尽
//
// 调用方必须持有 s.mu。
func (s *zipState[A, B]) exhausted() bool {
	return (s.doneA && len(s.bufA) == 0) || (s.doneB && len(s.bufB) == 0)
}

// terminateLocked 标记终止并移交待取消的订阅
//
// 调用方必须持有 s.mu，并在解锁后自行投递终止信号。
func (s *zipState[A, B]) terminateLocked() []pkgif.Subscription {
	s.done = true
	subs := s.subs
	s.subs = nil
	return subs
}

// zipObserverA 第一来源的观察者
type zipObserverA[A, B any] struct {
	state *zipState[A, B]
}

func (o *zipObserverA[A, B]) OnNext(value A) {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	if len(s.bufB) == 0 {
		s.bufA = append(s.bufA, value)
		s.mu.Unlock()
		return
	}
	b := s.bufB[0]
	s.bufB = s.bufB[1:]
	s.mu.Unlock()

	s.downstream.OnNext(pkgif.Pair[A, B]{First: value, Second: b})

	// 配对消费后另一侧可能已耗尽
	s.mu.Lock()
	if s.done || !s.exhausted() {
		s.mu.Unlock()
		return
	}
	subs := s.terminateLocked()
	s.mu.Unlock()

	s.downstream.OnComplete()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (o *zipObserverA[A, B]) OnError(err error) {
	o.state.fail(err)
}

func (o *zipObserverA[A, B]) OnComplete() {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.doneA = true
	if !s.exhausted() {
		s.mu.Unlock()
		return
	}
	subs := s.terminateLocked()
	s.mu.Unlock()

	s.downstream.OnComplete()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// zipObserverB 第二来源的观察者
type zipObserverB[A, B any] struct {
	state *zipState[A, B]
}

func (o *zipObserverB[A, B]) OnNext(value B) {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	if len(s.bufA) == 0 {
		s.bufB = append(s.bufB, value)
		s.mu.Unlock()
		return
	}
	a := s.bufA[0]
	s.bufA = s.bufA[1:]
	s.mu.Unlock()

	s.downstream.OnNext(pkgif.Pair[A, B]{First: a, Second: value})

	s.mu.Lock()
	if s.done || !s.exhausted() {
		s.mu.Unlock()
		return
	}
	subs := s.terminateLocked()
	s.mu.Unlock()

	s.downstream.OnComplete()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (o *zipObserverB[A, B]) OnError(err error) {
	o.state.fail(err)
}

func (o *zipObserverB[A, B]) OnComplete() {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.doneB = true
	if !s.exhausted() {
		s.mu.Unlock()
		return
	}
	subs := s.terminateLocked()
	s.mu.Unlock()

	s.downstream.OnComplete()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
