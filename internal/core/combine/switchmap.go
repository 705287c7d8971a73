package combine

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// SwitchMap
// ============================================================================

// SwitchMap 创建切换映射流
//
// 每收到一个上游值，就取消先前活跃的内部流订阅，
// 订阅 fn(v) 产出的新内部流，只转发最新内部流的发射；
// 过期内部流被静默取消。
// 上游与当前内部流都完成后才转发完成信号。
func SwitchMap[T, U any](source pkgif.Observable[T], fn func(T) pkgif.Observable[U]) pkgif.Observable[U] {
	return stream.ObservableFunc[U](func(downstream pkgif.Observer[U]) pkgif.Subscription {
		st := &switchState[T, U]{
			downstream: downstream,
			fn:         fn,
		}

		outer := source.Subscribe(&switchOuterObserver[T, U]{state: st})
		st.attachOuter(outer)

		return stream.NewSubscription(st.cancelAll)
	})
}

// switchState 切换映射共享状态
//
// generation 区分内部流的代际：
// 只有最新代际的内部流通知会被转发。
// emitMu 串行化下游投递并与代际切换互斥，
// mu 只保护内部状态；投递期间不持有 mu，
// 下游在回调中退订走 cancelAll，不会与投递互锁。
type switchState[T, U any] struct {
	emitMu      sync.Mutex
	mu          sync.Mutex
	downstream  pkgif.Observer[U]
	fn          func(T) pkgif.Observable[U]
	outer       pkgif.Subscription
	inner       pkgif.Subscription
	generation  uint64
	innerActive bool
	outerDone   bool
	done        bool
}

// attachOuter 记录上游订阅
func (s *switchState[T, U]) attachOuter(sub pkgif.Subscription) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.outer = sub
	s.mu.Unlock()
}

// cancelAll 终止并取消上游与内部流订阅
func (s *switchState[T, U]) cancelAll() {
	s.mu.Lock()
	s.done = true
	outer := s.outer
	inner := s.inner
	s.outer = nil
	s.inner = nil
	s.mu.Unlock()

	if inner != nil {
		inner.Unsubscribe()
	}
	if outer != nil {
		outer.Unsubscribe()
	}
}

// fail 转发错误并终止
func (s *switchState[T, U]) fail(err error) {
	s.emitMu.Lock()
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.emitMu.Unlock()
		return
	}
	s.done = true
	outer := s.outer
	inner := s.inner
	s.outer = nil
	s.inner = nil
	s.mu.Unlock()

	s.downstream.OnError(err)
	s.emitMu.Unlock()

	if inner != nil {
		inner.Unsubscribe()
	}
	if outer != nil {
		outer.Unsubscribe()
	}
}

// switchOuterObserver 上游观察者
type switchOuterObserver[T, U any] struct {
	state *switchState[T, U]
}

func (o *switchOuterObserver[T, U]) OnNext(value T) {
	s := o.state

	// 代际切换在 emitMu 下进行：在途的过期投递先行结束，
	// 切换之后过期内部流的值不再到达下游
	s.emitMu.Lock()
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.emitMu.Unlock()
		return
	}
	// 过期内部流被静默取消
	stale := s.inner
	s.inner = nil
	s.generation++
	gen := s.generation
	s.innerActive = true
	s.mu.Unlock()
	s.emitMu.Unlock()

	if stale != nil {
		stale.Unsubscribe()
	}

	innerSource, err := safeProject(s.fn, value)
	if err != nil {
		s.fail(err)
		return
	}

	innerSub := innerSource.Subscribe(&switchInnerObserver[T, U]{state: s, gen: gen})

	s.mu.Lock()
	if s.done || s.generation != gen {
		s.mu.Unlock()
		innerSub.Unsubscribe()
		return
	}
	s.inner = innerSub
	s.mu.Unlock()
}

func (o *switchOuterObserver[T, U]) OnError(err error) {
	o.state.fail(err)
}

func (o *switchOuterObserver[T, U]) OnComplete() {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.outerDone = true
	finish := !s.innerActive
	if finish {
		s.done = true
	}
	s.mu.Unlock()

	if finish {
		s.downstream.OnComplete()
	}
}

// switchInnerObserver 内部流观察者
type switchInnerObserver[T, U any] struct {
	state *switchState[T, U]
	gen   uint64
}

func (o *switchInnerObserver[T, U]) OnNext(value U) {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done || s.generation != o.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.downstream.OnNext(value)
}

func (o *switchInnerObserver[T, U]) OnError(err error) {
	s := o.state
	s.mu.Lock()
	if s.done || s.generation != o.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.fail(err)
}

func (o *switchInnerObserver[T, U]) OnComplete() {
	s := o.state
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done || s.generation != o.gen {
		s.mu.Unlock()
		return
	}
	s.innerActive = false
	s.inner = nil
	finish := s.outerDone
	if finish {
		s.done = true
	}
	s.mu.Unlock()

	if finish {
		s.downstream.OnComplete()
	}
}

// safeProject 执行投影函数并把 panic 转换为错误
func safeProject[T, U any](fn func(T) pkgif.Observable[U], v T) (result pkgif.Observable[U], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("projection function panic: %v", r)
		}
	}()

	result = fn(v)
	return result, nil
}
