package operator

import (
	"errors"
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ErrProducer 用户变换函数执行失败
var ErrProducer = errors.New("producer function failed")

// ============================================================================
// link：算子与上游之间的连接状态
// ============================================================================

// link 管理一条订阅链路的上游句柄与终止状态
//
// 同步冷源在 Subscribe 返回之前就可能投递完所有值，
// 此时上游句柄尚未就位；cancelPending 记录这笔待执行的取消，
// 在句柄就位后立刻补执行。
type link struct {
	mu            sync.Mutex
	upstream      pkgif.Subscription
	done          bool
	cancelPending bool
}

// enter 尝试进入一次投递，链路已终止时返回 false
func (l *link) enter() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.done
}

// terminate 尝试进入终止，返回 false 表示链路已终止过
func (l *link) terminate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return false
	}
	l.done = true
	return true
}

// attach 记录上游订阅句柄
func (l *link) attach(sub pkgif.Subscription) {
	l.mu.Lock()
	l.upstream = sub
	pending := l.cancelPending
	l.mu.Unlock()

	if pending {
		sub.Unsubscribe()
	}
}

// cancelUpstream 取消上游订阅
//
// 上游句柄尚未就位时记为待执行。
func (l *link) cancelUpstream() {
	l.mu.Lock()
	sub := l.upstream
	if sub == nil {
		l.cancelPending = true
	}
	l.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// cancel 终止链路并取消上游，用于下游主动退订
func (l *link) cancel() {
	l.mu.Lock()
	l.done = true
	l.mu.Unlock()
	l.cancelUpstream()
}

// safeApply 执行用户变换函数并把 panic 转换为错误
func safeApply[T, U any](fn func(T) (U, error), v T) (result U, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrProducer, r)
		}
	}()

	result, err = fn(v)
	if err != nil && !errors.Is(err, ErrProducer) {
		err = fmt.Errorf("%w: %w", ErrProducer, err)
	}
	return result, err
}

// safePredicate 执行用户谓词并把 panic 转换为错误
func safePredicate[T any](fn func(T) bool, v T) (keep bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrProducer, r)
		}
	}()

	return fn(v), nil
}
