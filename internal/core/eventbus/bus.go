package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/dep2p/go-reactive/internal/core/metrics"
	"github.com/dep2p/go-reactive/internal/core/scheduler"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
	"github.com/dep2p/go-reactive/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")
	// ErrInvalidTopic 无效的主题名
	ErrInvalidTopic = errors.New("invalid topic name")
	// ErrNilObserver 观察者为空
	ErrNilObserver = errors.New("subscribe called with nil observer")
)

// 默认配置
const (
	defaultQueueSize = 64
	defaultWorkers   = 4

	// closeDrainTimeout 关闭时等待调度器排空的上限
	closeDrainTimeout = 5 * time.Second
)

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
type Bus struct {
	mu sync.RWMutex

	// topics 主题表
	topics map[string]*topic
	closed bool

	sched     pkgif.Scheduler
	ownsSched bool

	settings pkgif.BusSettings
	metrics  *metrics.BusMetrics
}

// New 创建新的事件总线
//
// reg 为 nil 时指标不对外注册。
// 未通过 WithScheduler 注入调度器时，总线创建并持有自己的调度器，
// Close 时负责排空它。
func New(reg prometheus.Registerer, opts ...pkgif.BusOpt) *Bus {
	settings := pkgif.BusSettings{
		QueueSize: defaultQueueSize,
		Workers:   defaultWorkers,
		Policy:    pkgif.PolicyBlock,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.QueueSize <= 0 {
		settings.QueueSize = defaultQueueSize
	}
	if settings.Workers <= 0 {
		settings.Workers = defaultWorkers
	}

	b := &Bus{
		topics:   make(map[string]*topic),
		settings: settings,
		metrics:  metrics.NewBusMetrics(reg),
	}

	if settings.Scheduler != nil {
		b.sched = settings.Scheduler
	} else {
		b.sched = scheduler.New(
			pkgif.Workers(settings.Workers),
			pkgif.WithSchedulerSink(settings.Sink),
		)
		b.ownsSched = true
		if err := b.sched.Start(); err != nil {
			// 新建调度器的 Start 只会因重复启动失败
			logger.Error("scheduler start failed", "err", err)
		}
	}

	return b
}

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Publish 向主题发布事件
//
// 值入队后立即返回；队列满且策略为 PolicyBlock 时阻塞。
// 主题没有订阅者时丢弃值并正常返回（热语义，约定行为）。
func (b *Bus) Publish(topicName string, value any) error {
	if topicName == "" {
		return ErrInvalidTopic
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	t := b.topics[topicName]
	b.mu.RUnlock()

	if t == nil {
		t = b.getOrCreateTopic(topicName)
		if t == nil {
			return ErrClosed
		}
	}

	// 发布日志：追加失败不阻断投递；无订阅者的丢弃同样入日志
	if b.settings.Journal != nil && b.settings.Encode != nil {
		b.appendJournal(topicName, value)
	}

	// 无订阅者：丢弃并计数，不缓冲给迟到订阅者
	if t.subject.Observers() == 0 {
		b.metrics.DroppedNoSubscriber.WithLabelValues(topicName).Inc()
		logger.Debug("published without subscribers",
			"topic", topicName)
		return nil
	}

	if err := t.enqueue(value); err != nil {
		return err
	}
	b.metrics.Published.WithLabelValues(topicName).Inc()
	b.metrics.QueueDepth.WithLabelValues(topicName).Set(float64(t.depth()))

	b.kick(t)
	return nil
}

// Subscribe 订阅主题事件
//
// 主题不存在时惰性创建。
func (b *Bus) Subscribe(topicName string, observer pkgif.Observer[any], opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	if topicName == "" {
		return nil, ErrInvalidTopic
	}
	if observer == nil {
		return nil, ErrNilObserver
	}

	settings := &pkgif.SubscriptionSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	t := b.getOrCreateTopic(topicName)
	if t == nil {
		return nil, ErrClosed
	}

	if settings.Sink != nil {
		observer = &sinkObserver{inner: observer, sink: settings.Sink}
	}

	return t.subject.Subscribe(observer), nil
}

// Topics 返回当前已注册的主题名
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.topics))
	for name := range b.topics {
		names = append(names, name)
	}
	return names
}

// Close 关闭总线
//
// 拒绝后续发布与订阅；持有调度器时先排空再停止，
// 然后向所有主题订阅者投递完成信号。幂等。
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	topics := make([]*topic, 0, len(b.topics))
	for _, t := range b.topics {
		topics = append(topics, t)
	}
	b.mu.Unlock()

	var err error
	if b.ownsSched {
		ctx, cancel := context.WithTimeout(context.Background(), closeDrainTimeout)
		defer cancel()
		if drainErr := b.sched.Drain(ctx); drainErr != nil {
			err = multierr.Append(err, drainErr)
			err = multierr.Append(err, b.sched.Stop())
		}
	}

	for _, t := range topics {
		t.subject.EmitComplete()
	}

	logger.Debug("eventbus closed", "topics", len(topics))
	return err
}

// ============================================================================
// 内部方法
// ============================================================================

// getOrCreateTopic 获取或惰性创建主题
//
// 总线已关闭时返回 nil。
func (b *Bus) getOrCreateTopic(name string) *topic {
	b.mu.RLock()
	t := b.topics[name]
	closed := b.closed
	b.mu.RUnlock()
	if t != nil || closed {
		if closed {
			return nil
		}
		return t
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	if t = b.topics[name]; t != nil {
		return t
	}

	t = newTopic(name, b.settings, b.metrics)
	b.topics[name] = t
	logger.Debug("topic created", "topic", name)
	return t
}

// kick 确保主题有一个在途分发任务
//
// 每个主题任意时刻至多一个分发任务在调度器上，保证主题内保序。
func (b *Bus) kick(t *topic) {
	t.mu.Lock()
	if t.dispatching {
		t.mu.Unlock()
		return
	}
	t.dispatching = true
	t.mu.Unlock()

	if err := b.sched.Submit(func() { b.drainTopic(t) }); err != nil {
		t.mu.Lock()
		t.dispatching = false
		t.mu.Unlock()
		b.report(err)
	}
}

// drainTopic 按序排空主题队列
func (b *Bus) drainTopic(t *topic) {
	for {
		select {
		case v := <-t.queue:
			t.subject.EmitNext(v)
			b.metrics.Delivered.WithLabelValues(t.name).Inc()
			b.metrics.QueueDepth.WithLabelValues(t.name).Set(float64(t.depth()))
		default:
			t.mu.Lock()
			if len(t.queue) == 0 {
				t.dispatching = false
				t.mu.Unlock()
				return
			}
			t.mu.Unlock()
		}
	}
}

// appendJournal 把发布的事件追加到发布日志
func (b *Bus) appendJournal(topicName string, value any) {
	data, err := b.settings.Encode(topicName, value)
	if err != nil {
		b.report(err)
		return
	}
	if _, err := b.settings.Journal.Append(context.Background(), data); err != nil {
		b.report(err)
	}
}

// report 上报总线内部错误
func (b *Bus) report(err error) {
	if b.settings.Sink != nil {
		b.settings.Sink(err)
		return
	}
	logger.Warn("bus error", "err", err)
}

// sinkObserver 包装观察者，将回调 panic 上报到订阅级 sink
type sinkObserver struct {
	inner pkgif.Observer[any]
	sink  pkgif.ErrorSink
}

func (o *sinkObserver) OnNext(value any) {
	defer o.recoverTo()
	o.inner.OnNext(value)
}

func (o *sinkObserver) OnError(err error) {
	defer o.recoverTo()
	o.inner.OnError(err)
}

func (o *sinkObserver) OnComplete() {
	defer o.recoverTo()
	o.inner.OnComplete()
}

func (o *sinkObserver) recoverTo() {
	if r := recover(); r != nil {
		o.sink(fmt.Errorf("observer callback panic: %v", r))
	}
}

// 接口契约检查
var _ pkgif.EventBus = (*Bus)(nil)
