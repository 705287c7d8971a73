package stream

import (
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Subject 实现
// ============================================================================

// Subject 热流
//
// Subject 在 Stream 之上叠加 Observer 能力：
// 可以订阅到任意上游 Observable，将收到的通知多播给自己的订阅者。
// 这是显式的热共享入口，多个下游共享同一条上游管线。
type Subject[T any] struct {
	Stream[T]
}

// NewSubject 创建新的 Subject
func NewSubject[T any](opts ...Option) *Subject[T] {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Subject[T]{}
	s.state = pkgif.StreamIdle
	s.sink = cfg.sink
	return s
}

// ============================================================================
// Observer 接口实现
// ============================================================================

// OnNext 接收上游值并多播
func (s *Subject[T]) OnNext(value T) {
	s.EmitNext(value)
}

// OnError 接收上游错误并多播终止
func (s *Subject[T]) OnError(err error) {
	s.EmitError(err)
}

// OnComplete 接收上游完成信号并多播终止
func (s *Subject[T]) OnComplete() {
	s.EmitComplete()
}

// 接口契约检查
var (
	_ pkgif.Subject[int]  = (*Subject[int])(nil)
	_ pkgif.Observer[int] = (*Subject[int])(nil)
)
