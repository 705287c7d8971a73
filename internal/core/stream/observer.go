package stream

import (
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// FuncObserver 实现
// ============================================================================

// FuncObserver 基于回调函数的观察者
//
// 未设置的回调是无操作默认值，
// 因此"只关心值"的订阅者不必实现完整的三通道契约。
type FuncObserver[T any] struct {
	Next     func(value T)
	Err      func(err error)
	Complete func()
}

// OnNext 接收下一个值
func (o *FuncObserver[T]) OnNext(value T) {
	if o.Next != nil {
		o.Next(value)
	}
}

// OnError 接收终止错误
func (o *FuncObserver[T]) OnError(err error) {
	if o.Err != nil {
		o.Err(err)
	}
}

// OnComplete 接收完成信号
func (o *FuncObserver[T]) OnComplete() {
	if o.Complete != nil {
		o.Complete()
	}
}

// NewObserver 创建基于回调的观察者
//
// 任意回调可以为 nil，对应通道为无操作。
func NewObserver[T any](next func(T), err func(error), complete func()) pkgif.Observer[T] {
	return &FuncObserver[T]{
		Next:     next,
		Err:      err,
		Complete: complete,
	}
}

// OnNext 创建只关心值的观察者
func OnNext[T any](next func(T)) pkgif.Observer[T] {
	return &FuncObserver[T]{Next: next}
}

// 接口契约检查
var _ pkgif.Observer[int] = (*FuncObserver[int])(nil)
