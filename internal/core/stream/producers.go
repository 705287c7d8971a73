package stream

import (
	"fmt"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// ObservableFunc 适配器
// ============================================================================

// ObservableFunc 将订阅函数适配为 Observable
//
// operator 和 combine 包用它构造惰性管线：
// 在 Subscribe 之前没有任何副作用。
type ObservableFunc[T any] func(observer pkgif.Observer[T]) pkgif.Subscription

// Subscribe 注册观察者
func (f ObservableFunc[T]) Subscribe(observer pkgif.Observer[T]) pkgif.Subscription {
	return f(observer)
}

// ============================================================================
// 冷生产者
// ============================================================================

// FromSlice 创建按订阅独立重放切片值的冷流
//
// 每次 Subscribe 同步投递全部值后投递完成信号。
// 订阅在投递期间被取消时停止投递。
func FromSlice[T any](values []T) pkgif.Observable[T] {
	return ObservableFunc[T](func(observer pkgif.Observer[T]) pkgif.Subscription {
		sub := NewSubscription(nil)

		for _, v := range values {
			if !sub.Active() {
				return sub
			}
			if !coldDeliver(func() { observer.OnNext(v) }) {
				return sub
			}
		}
		if sub.Active() {
			coldDeliver(func() { observer.OnComplete() })
		}
		return sub
	})
}

// Just 创建只发射给定值的冷流
func Just[T any](values ...T) pkgif.Observable[T] {
	return FromSlice(values)
}

// Range 创建发射 [start, start+count) 整数序列的冷流
func Range(start, count int) pkgif.Observable[int] {
	return ObservableFunc[int](func(observer pkgif.Observer[int]) pkgif.Subscription {
		sub := NewSubscription(nil)

		for i := 0; i < count; i++ {
			if !sub.Active() {
				return sub
			}
			v := start + i
			if !coldDeliver(func() { observer.OnNext(v) }) {
				return sub
			}
		}
		if sub.Active() {
			coldDeliver(func() { observer.OnComplete() })
		}
		return sub
	})
}

// coldDeliver 执行冷流投递回调并隔离 panic
//
// 返回 false 表示回调 panic，投递应当中止。
func coldDeliver(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logger.Error("observer callback panic",
				"panic", fmt.Sprint(r))
		}
	}()

	fn()
	return true
}
