package operator

import (
	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Map
// ============================================================================

// Map 创建对每个值应用变换函数的流
//
// fn 返回错误或 panic 时，向下游转发错误并终止，同时取消上游订阅。
func Map[T, U any](source pkgif.Observable[T], fn func(T) (U, error)) pkgif.Observable[U] {
	return stream.ObservableFunc[U](func(downstream pkgif.Observer[U]) pkgif.Subscription {
		ob := &mapObserver[T, U]{downstream: downstream, fn: fn}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(ob.cancel)
	})
}

// mapObserver Map 的上游观察者，状态按订阅隔离
type mapObserver[T, U any] struct {
	link
	downstream pkgif.Observer[U]
	fn         func(T) (U, error)
}

func (o *mapObserver[T, U]) OnNext(value T) {
	if !o.enter() {
		return
	}

	result, err := safeApply(o.fn, value)
	if err != nil {
		if o.terminate() {
			o.downstream.OnError(err)
			o.cancelUpstream()
		}
		return
	}
	o.downstream.OnNext(result)
}

func (o *mapObserver[T, U]) OnError(err error) {
	if o.terminate() {
		o.downstream.OnError(err)
	}
}

func (o *mapObserver[T, U]) OnComplete() {
	if o.terminate() {
		o.downstream.OnComplete()
	}
}

// ============================================================================
// Filter
// ============================================================================

// Filter 创建只转发满足谓词的值的流
//
// 谓词 panic 时向下游转发错误并终止。
func Filter[T any](source pkgif.Observable[T], predicate func(T) bool) pkgif.Observable[T] {
	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		ob := &filterObserver[T]{downstream: downstream, predicate: predicate}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(ob.cancel)
	})
}

// filterObserver Filter 的上游观察者
type filterObserver[T any] struct {
	link
	downstream pkgif.Observer[T]
	predicate  func(T) bool
}

func (o *filterObserver[T]) OnNext(value T) {
	if !o.enter() {
		return
	}

	keep, err := safePredicate(o.predicate, value)
	if err != nil {
		if o.terminate() {
			o.downstream.OnError(err)
			o.cancelUpstream()
		}
		return
	}
	if keep {
		o.downstream.OnNext(value)
	}
}

func (o *filterObserver[T]) OnError(err error) {
	if o.terminate() {
		o.downstream.OnError(err)
	}
}

func (o *filterObserver[T]) OnComplete() {
	if o.terminate() {
		o.downstream.OnComplete()
	}
}

// ============================================================================
// Take
// ============================================================================

// Take 创建只转发前 n 个值的流
//
// 转发第 n 个值后合成完成信号并立即取消上游订阅，
// 这是资源清理契约，不只是计数契约。
func Take[T any](source pkgif.Observable[T], n int) pkgif.Observable[T] {
	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		if n <= 0 {
			// 不订阅上游，直接完成
			downstream.OnComplete()
			return stream.Closed()
		}

		ob := &takeObserver[T]{downstream: downstream, remaining: n}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(ob.cancel)
	})
}

// takeObserver Take 的上游观察者
type takeObserver[T any] struct {
	link
	downstream pkgif.Observer[T]
	remaining  int
}

func (o *takeObserver[T]) OnNext(value T) {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	o.remaining--
	last := o.remaining == 0
	if last {
		o.done = true
	}
	o.mu.Unlock()

	o.downstream.OnNext(value)
	if last {
		o.downstream.OnComplete()
		o.cancelUpstream()
	}
}

func (o *takeObserver[T]) OnError(err error) {
	if o.terminate() {
		o.downstream.OnError(err)
	}
}

func (o *takeObserver[T]) OnComplete() {
	if o.terminate() {
		o.downstream.OnComplete()
	}
}

// ============================================================================
// Skip
// ============================================================================

// Skip 创建丢弃前 n 个值的流
func Skip[T any](source pkgif.Observable[T], n int) pkgif.Observable[T] {
	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		ob := &skipObserver[T]{downstream: downstream, remaining: n}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(ob.cancel)
	})
}

// skipObserver Skip 的上游观察者
type skipObserver[T any] struct {
	link
	downstream pkgif.Observer[T]
	remaining  int
}

func (o *skipObserver[T]) OnNext(value T) {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	if o.remaining > 0 {
		o.remaining--
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.downstream.OnNext(value)
}

func (o *skipObserver[T]) OnError(err error) {
	if o.terminate() {
		o.downstream.OnError(err)
	}
}

func (o *skipObserver[T]) OnComplete() {
	if o.terminate() {
		o.downstream.OnComplete()
	}
}

// ============================================================================
// Distinct
// ============================================================================

// Distinct 创建只在首次出现时转发值的流
//
// seen 集合的生命周期与单次订阅一致。
func Distinct[T comparable](source pkgif.Observable[T]) pkgif.Observable[T] {
	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		ob := &distinctObserver[T]{
			downstream: downstream,
			seen:       make(map[T]struct{}),
		}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(ob.cancel)
	})
}

// distinctObserver Distinct 的上游观察者
type distinctObserver[T comparable] struct {
	link
	downstream pkgif.Observer[T]
	seen       map[T]struct{}
}

func (o *distinctObserver[T]) OnNext(value T) {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	if _, dup := o.seen[value]; dup {
		o.mu.Unlock()
		return
	}
	o.seen[value] = struct{}{}
	o.mu.Unlock()

	o.downstream.OnNext(value)
}

func (o *distinctObserver[T]) OnError(err error) {
	if o.terminate() {
		o.downstream.OnError(err)
	}
}

func (o *distinctObserver[T]) OnComplete() {
	if o.terminate() {
		o.downstream.OnComplete()
	}
}
