package combine

import (
	"sync"

	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Concat
// ============================================================================

// Concat 创建按序串接多个来源的流
//
// 先订阅第一个来源并转发其值；它完成后才订阅下一个来源。
// 顺序保证：后一来源在前一来源完成前绝不会被订阅。
func Concat[T any](sources ...pkgif.Observable[T]) pkgif.Observable[T] {
	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		if len(sources) == 0 {
			downstream.OnComplete()
			return stream.Closed()
		}

		st := &concatState[T]{
			downstream: downstream,
			sources:    sources,
		}
		st.next()

		return stream.NewSubscription(st.cancel)
	})
}

// concatState 串接共享状态
type concatState[T any] struct {
	mu         sync.Mutex
	downstream pkgif.Observer[T]
	sources    []pkgif.Observable[T]
	index      int
	current    pkgif.Subscription
	done       bool
}

// next 订阅下一个来源
//
// 同步来源可能在 Subscribe 期间就完成并递归推进，
// 递归通过 index 前移收敛。
func (s *concatState[T]) next() {
	s.mu.Lock()
	if s.done || s.index >= len(s.sources) {
		s.mu.Unlock()
		return
	}
	source := s.sources[s.index]
	s.index++
	s.mu.Unlock()

	sub := source.Subscribe(&concatObserver[T]{state: s})

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.current = sub
	s.mu.Unlock()
}

// cancel 终止并取消当前来源订阅
func (s *concatState[T]) cancel() {
	s.mu.Lock()
	s.done = true
	sub := s.current
	s.current = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// concatObserver 当前来源的观察者
type concatObserver[T any] struct {
	state *concatState[T]
}

func (o *concatObserver[T]) OnNext(value T) {
	s := o.state
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.downstream.OnNext(value)
}

func (o *concatObserver[T]) OnError(err error) {
	s := o.state
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.current = nil
	s.mu.Unlock()

	s.downstream.OnError(err)
}

func (o *concatObserver[T]) OnComplete() {
	s := o.state
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	last := s.index >= len(s.sources)
	if last {
		s.done = true
	}
	s.current = nil
	s.mu.Unlock()

	if last {
		s.downstream.OnComplete()
		return
	}
	s.next()
}
