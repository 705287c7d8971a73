package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-reactive/internal/core/eventlog"
	"github.com/dep2p/go-reactive/internal/core/scheduler"
	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// testBus 创建测试用总线并注册清理
func testBus(t *testing.T, opts ...pkgif.BusOpt) *Bus {
	t.Helper()

	b := New(nil, opts...)
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("failed to close bus: %v", err)
		}
	})
	return b
}

// collector 收集观察者回调，便于断言
type collector struct {
	mu       sync.Mutex
	values   []any
	complete bool
}

func (c *collector) OnNext(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, value)
}

func (c *collector) OnError(error) {}

func (c *collector) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.complete = true
}

func (c *collector) snapshot() ([]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.values...), c.complete
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// ============================================================================
// 发布 / 订阅测试
// ============================================================================

func TestBus_PublishSubscribe(t *testing.T) {
	b := testBus(t)
	c := &collector{}

	_, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", "order-1"))
	require.NoError(t, b.Publish("orders", "order-2"))

	require.Eventually(t, func() bool { return c.len() == 2 }, time.Second, time.Millisecond)

	values, _ := c.snapshot()
	assert.Equal(t, []any{"order-1", "order-2"}, values, "同一主题投递保持发布顺序")
}

func TestBus_TopicIsolation(t *testing.T) {
	b := testBus(t)
	orders := &collector{}
	users := &collector{}

	_, err := b.Subscribe("orders", orders)
	require.NoError(t, err)
	_, err = b.Subscribe("users", users)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", 1))
	require.NoError(t, b.Publish("users", 2))

	require.Eventually(t, func() bool {
		return orders.len() == 1 && users.len() == 1
	}, time.Second, time.Millisecond)

	ov, _ := orders.snapshot()
	uv, _ := users.snapshot()
	assert.Equal(t, []any{1}, ov)
	assert.Equal(t, []any{2}, uv)
}

func TestBus_NoSubscriberDrops(t *testing.T) {
	b := testBus(t)

	// 无订阅者的发布成功返回但被丢弃
	require.NoError(t, b.Publish("silent", "lost"))

	c := &collector{}
	_, err := b.Subscribe("silent", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("silent", "seen"))
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, time.Millisecond)

	values, _ := c.snapshot()
	assert.Equal(t, []any{"seen"}, values, "晚订阅者看不到之前被丢弃的事件")
}

func TestBus_MultipleSubscribers(t *testing.T) {
	b := testBus(t)
	c1 := &collector{}
	c2 := &collector{}

	_, err := b.Subscribe("fanout", c1)
	require.NoError(t, err)
	_, err = b.Subscribe("fanout", c2)
	require.NoError(t, err)

	require.NoError(t, b.Publish("fanout", "x"))

	require.Eventually(t, func() bool {
		return c1.len() == 1 && c2.len() == 1
	}, time.Second, time.Millisecond)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := testBus(t)
	c := &collector{}

	sub, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", 1))
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, time.Millisecond)

	sub.Unsubscribe()
	require.NoError(t, b.Publish("orders", 2))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, c.len(), "退订后不再投递")
}

func TestBus_InvalidArgs(t *testing.T) {
	b := testBus(t)

	assert.ErrorIs(t, b.Publish("", 1), ErrInvalidTopic)

	_, err := b.Subscribe("", &collector{})
	assert.ErrorIs(t, err, ErrInvalidTopic)

	_, err = b.Subscribe("orders", nil)
	assert.ErrorIs(t, err, ErrNilObserver)
}

func TestBus_Topics(t *testing.T) {
	b := testBus(t)

	require.NoError(t, b.Publish("a", 1))
	_, err := b.Subscribe("b", &collector{})
	require.NoError(t, err)

	topics := b.Topics()
	assert.ElementsMatch(t, []string{"a", "b"}, topics)
}

// ============================================================================
// 关闭测试
// ============================================================================

func TestBus_Close(t *testing.T) {
	b := New(nil)
	c := &collector{}
	_, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Publish("orders", 1), ErrClosed)
	_, err = b.Subscribe("orders", &collector{})
	assert.ErrorIs(t, err, ErrClosed)

	_, complete := c.snapshot()
	assert.True(t, complete, "关闭时订阅者收到完成信号")

	require.NoError(t, b.Close(), "Close 幂等")
}

func TestBus_CloseDeliversInFlight(t *testing.T) {
	b := New(nil, QueueSize(128))
	c := &collector{}
	_, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, b.Publish("orders", i))
	}
	require.NoError(t, b.Close())

	values, complete := c.snapshot()
	assert.Len(t, values, 100, "关闭前已入队的事件全部投递")
	assert.True(t, complete)
}

// ============================================================================
// 订阅者隔离测试
// ============================================================================

func TestBus_SlowObserverPanicIsolated(t *testing.T) {
	var sinkErr error
	var sinkMu sync.Mutex
	b := testBus(t)

	_, err := b.Subscribe("orders",
		stream.NewObserver[any](func(any) { panic("subscriber blew up") }, nil, nil),
		pkgif.WithObserverSink(func(e error) {
			sinkMu.Lock()
			sinkErr = e
			sinkMu.Unlock()
		}))
	require.NoError(t, err)

	healthy := &collector{}
	_, err = b.Subscribe("orders", healthy)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", "x"))

	require.Eventually(t, func() bool { return healthy.len() == 1 }, time.Second, time.Millisecond)

	sinkMu.Lock()
	defer sinkMu.Unlock()
	require.Error(t, sinkErr)
	assert.Contains(t, sinkErr.Error(), "subscriber blew up")
}

func TestBus_DropOldestPolicy(t *testing.T) {
	b := testBus(t, QueueSize(2), DropOldest(), Workers(1))

	release := make(chan struct{})
	gate := make(chan struct{}, 1)
	var mu sync.Mutex
	var got []any

	_, err := b.Subscribe("orders", stream.OnNext(func(v any) {
		select {
		case gate <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	}))
	require.NoError(t, err)

	// 第一个事件占住唯一的工作协程
	require.NoError(t, b.Publish("orders", 0))
	<-gate

	// 队列容量 2：继续发布会丢弃最旧事件，发布者绝不阻塞
	for i := 1; i <= 5; i++ {
		require.NoError(t, b.Publish("orders", i))
	}
	close(release)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1] == 5
	}, time.Second, time.Millisecond, "最新事件必须存活")

	mu.Lock()
	defer mu.Unlock()
	assert.Less(t, len(got), 6, "最旧事件被丢弃")
	assert.Equal(t, any(0), got[0], "在途事件不受影响")
}

// ============================================================================
// 外部调度器 / 日志测试
// ============================================================================

func TestBus_ExternalScheduler(t *testing.T) {
	sched := scheduler.New()
	require.NoError(t, sched.Start())
	t.Cleanup(func() { _ = sched.Stop() })

	b := New(nil, pkgif.WithScheduler(sched))
	defer b.Close()

	c := &collector{}
	_, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", 1))
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, b.Close())
	assert.Equal(t, pkgif.SchedulerRunning, sched.State(), "外部调度器由调用方管理生命周期")
}

func TestBus_Journal(t *testing.T) {
	journal := eventlog.NewMemory()
	defer journal.Close()

	type record struct {
		Topic string `json:"topic"`
		Value any    `json:"value"`
	}
	encode := func(topic string, value any) ([]byte, error) {
		return json.Marshal(record{Topic: topic, Value: value})
	}

	b := testBus(t, pkgif.WithJournal(journal, encode))
	c := &collector{}
	_, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", "order-1"))
	require.NoError(t, b.Publish("orders", "order-2"))
	// 无订阅者的事件同样入日志
	require.NoError(t, b.Publish("metrics", "tick"))

	require.Eventually(t, func() bool { return journal.Len() == 3 }, time.Second, time.Millisecond)

	entries, err := journal.ReadFrom(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var first record
	require.NoError(t, json.Unmarshal(entries[0].Data, &first))
	assert.Equal(t, "orders", first.Topic)
	assert.Equal(t, "order-1", first.Value)
}

func TestBus_JournalEncodeErrorReported(t *testing.T) {
	journal := eventlog.NewMemory()
	defer journal.Close()

	var sinkErr error
	var sinkMu sync.Mutex
	encodeFail := errors.New("encode failed")

	b := testBus(t,
		pkgif.WithJournal(journal, func(string, any) ([]byte, error) {
			return nil, encodeFail
		}),
		pkgif.WithBusSink(func(e error) {
			sinkMu.Lock()
			sinkErr = e
			sinkMu.Unlock()
		}))

	c := &collector{}
	_, err := b.Subscribe("orders", c)
	require.NoError(t, err)

	require.NoError(t, b.Publish("orders", 1), "日志失败不阻断发布")
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, time.Millisecond)

	sinkMu.Lock()
	defer sinkMu.Unlock()
	assert.ErrorIs(t, sinkErr, encodeFail)
}
