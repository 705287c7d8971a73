package stream

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 订阅句柄
//
// 单次使用的能力句柄：Unsubscribe 幂等，多次调用无额外效果。
type Subscription struct {
	id     string
	once   sync.Once
	active atomic.Bool
	cancel func()
}

// NewSubscription 创建订阅句柄
//
// cancel 在首次 Unsubscribe 时执行一次，负责摘除观察者并释放资源。
func NewSubscription(cancel func()) *Subscription {
	s := &Subscription{
		id:     uuid.NewString(),
		cancel: cancel,
	}
	s.active.Store(true)
	return s
}

// Closed 返回已失效的订阅句柄
//
// 用于向已终止流的迟到订阅者返回无操作句柄。
func Closed() *Subscription {
	return &Subscription{id: uuid.NewString()}
}

// ID 返回订阅的唯一标识
func (s *Subscription) ID() string {
	return s.id
}

// Unsubscribe 取消订阅
//
// 幂等且同步生效：返回后不会再有任何通知到达对应观察者。
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.active.Store(false)
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Active 返回订阅是否仍然有效
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// 接口契约检查
var _ pkgif.Subscription = (*Subscription)(nil)
