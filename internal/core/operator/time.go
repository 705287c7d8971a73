package operator

import (
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Debounce
// ============================================================================

// Debounce 创建静默期过滤流
//
// 每收到一个值就取消尚未触发的定时发射，
// 并以最近的值重新计时 delay；突发序列中只有最后一个值存活。
// 上游完成时，未触发的待定值先行投递再转发完成信号。
func Debounce[T any](source pkgif.Observable[T], delay time.Duration, opts ...Opt) pkgif.Observable[T] {
	cfg := newSettings(opts)

	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		ob := &debounceObserver[T]{
			downstream: downstream,
			delay:      delay,
			clock:      cfg.clock,
		}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(func() {
			ob.stopTimer()
			ob.cancel()
		})
	})
}

// debounceObserver Debounce 的上游观察者
//
// pending 定时器是本算子唯一的悬挂点：
// 等待触发或被更新的值超越。
type debounceObserver[T any] struct {
	link
	downstream pkgif.Observer[T]
	delay      time.Duration
	clock      clock.Clock

	timer      *clock.Timer
	pending    T
	hasPending bool
}

func (o *debounceObserver[T]) OnNext(value T) {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	o.pending = value
	o.hasPending = true
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = o.clock.AfterFunc(o.delay, o.fire)
	o.mu.Unlock()
}

// fire 定时触发：投递最近的待定值
func (o *debounceObserver[T]) fire() {
	o.mu.Lock()
	if o.done || !o.hasPending {
		o.mu.Unlock()
		return
	}
	value := o.pending
	o.hasPending = false
	o.mu.Unlock()

	o.downstream.OnNext(value)
}

func (o *debounceObserver[T]) OnError(err error) {
	if !o.terminate() {
		return
	}
	o.stopTimer()
	o.downstream.OnError(err)
}

func (o *debounceObserver[T]) OnComplete() {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	o.done = true
	if o.timer != nil {
		o.timer.Stop()
	}
	flush := o.hasPending
	value := o.pending
	o.hasPending = false
	o.mu.Unlock()

	if flush {
		o.downstream.OnNext(value)
	}
	o.downstream.OnComplete()
}

// stopTimer 停止待定的定时发射
func (o *debounceObserver[T]) stopTimer() {
	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
	}
	o.hasPending = false
	o.mu.Unlock()
}

// ============================================================================
// Throttle
// ============================================================================

// Throttle 创建窗口限流流
//
// 窗口期内第一个值立即转发，其后的值在窗口结束前全部丢弃。
// 基于 rate.Limiter（容量 1，每 interval 补充一个令牌）。
func Throttle[T any](source pkgif.Observable[T], interval time.Duration, opts ...Opt) pkgif.Observable[T] {
	cfg := newSettings(opts)

	return stream.ObservableFunc[T](func(downstream pkgif.Observer[T]) pkgif.Subscription {
		ob := &throttleObserver[T]{
			downstream: downstream,
			clock:      cfg.clock,
			limiter:    rate.NewLimiter(rate.Every(interval), 1),
		}
		ob.attach(source.Subscribe(ob))
		return stream.NewSubscription(ob.cancel)
	})
}

// throttleObserver Throttle 的上游观察者
type throttleObserver[T any] struct {
	link
	downstream pkgif.Observer[T]
	clock      clock.Clock
	limiter    *rate.Limiter
}

func (o *throttleObserver[T]) OnNext(value T) {
	if !o.enter() {
		return
	}
	if !o.limiter.AllowN(o.clock.Now(), 1) {
		return
	}
	o.downstream.OnNext(value)
}

func (o *throttleObserver[T]) OnError(err error) {
	if o.terminate() {
		o.downstream.OnError(err)
	}
}

func (o *throttleObserver[T]) OnComplete() {
	if o.terminate() {
		o.downstream.OnComplete()
	}
}
