package eventbus

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-reactive/internal/core/metrics"
	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// topic 实现
// ============================================================================

// topic 主题条目
//
// 由有界队列和订阅者多播 Subject 组成。
// 首次 Subscribe/Publish 时创建，总线关闭时统一拆除；
// 只要还有订阅者就不做按主题的自动回收。
type topic struct {
	name    string
	subject *stream.Subject[any]
	queue   chan any
	policy  pkgif.OverflowPolicy

	mu          sync.Mutex
	dispatching bool

	// dropCount 溢出丢弃计数（用于慢消费者警告）
	dropCount atomic.Int64

	metrics *metrics.BusMetrics
}

// newTopic 创建主题条目
func newTopic(name string, settings pkgif.BusSettings, m *metrics.BusMetrics) *topic {
	var subjectOpts []stream.Option
	if settings.Sink != nil {
		subjectOpts = append(subjectOpts, stream.WithSink(settings.Sink))
	}

	return &topic{
		name:    name,
		subject: stream.NewSubject[any](subjectOpts...),
		queue:   make(chan any, settings.QueueSize),
		policy:  settings.Policy,
		metrics: m,
	}
}

// enqueue 按溢出策略入队
//
// PolicyBlock 下队列满时阻塞发布者；
// PolicyDropOldest 下丢弃最旧事件，通过指标上报，绝不抛给发布者。
func (t *topic) enqueue(value any) error {
	if t.policy == pkgif.PolicyDropOldest {
		for {
			select {
			case t.queue <- value:
				return nil
			default:
			}
			// 队列满：丢弃最旧事件后重试
			select {
			case <-t.queue:
				dropped := t.dropCount.Add(1)
				t.metrics.DroppedOverflow.WithLabelValues(t.name).Inc()
				// 每丢弃 100 个事件警告一次，避免日志泛滥
				if dropped%100 == 1 {
					logger.Warn("slow consumer detected",
						"dropped", dropped,
						"topic", t.name,
						"reason", "topic queue full")
				}
			default:
			}
		}
	}

	t.queue <- value
	return nil
}

// depth 返回当前队列深度
func (t *topic) depth() int {
	return len(t.queue)
}
