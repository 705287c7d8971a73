package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ============================================================================
// 生命周期测试
// ============================================================================

func TestScheduler_Lifecycle(t *testing.T) {
	s := New()
	assert.Equal(t, pkgif.SchedulerIdle, s.State())

	require.NoError(t, s.Start())
	assert.Equal(t, pkgif.SchedulerRunning, s.State())

	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Drain(ctx))
	assert.Equal(t, pkgif.SchedulerStopped, s.State())

	assert.ErrorIs(t, s.Submit(func() {}), ErrStopped)
	assert.ErrorIs(t, s.Start(), ErrStopped, "停止后不可重新启动")
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Submit(func() {}), ErrNotStarted)
	require.NoError(t, s.Stop())
}

func TestScheduler_ExecutesTasks(t *testing.T) {
	s := New(pkgif.Workers(2), pkgif.QueueSize(16))
	require.NoError(t, s.Start())

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		require.NoError(t, s.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(50), count.Load())
	require.NoError(t, s.Stop())
}

func TestScheduler_NilTaskIgnored(t *testing.T) {
	s := New()
	require.NoError(t, s.Start())
	assert.NoError(t, s.Submit(nil))
	require.NoError(t, s.Stop())
}

// ============================================================================
// Drain / Stop 测试
// ============================================================================

func TestScheduler_DrainRunsQueuedTasks(t *testing.T) {
	// 单工作协程被慢任务占住，后续任务滞留队列
	s := New(pkgif.Workers(1), pkgif.QueueSize(64))
	require.NoError(t, s.Start())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Submit(func() { count.Add(1) }))
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Drain(ctx))

	assert.Equal(t, int32(10), count.Load(), "排空前已入队的任务全部执行")
	assert.Equal(t, pkgif.SchedulerStopped, s.State())
}

func TestScheduler_DrainRejectsNewTasks(t *testing.T) {
	s := New(pkgif.Workers(1))
	require.NoError(t, s.Start())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	drainErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		drainErr <- s.Drain(ctx)
	}()

	// 等待进入 Draining
	require.Eventually(t, func() bool {
		return s.State() == pkgif.SchedulerDraining
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, s.Submit(func() {}), ErrDraining)

	close(release)
	require.NoError(t, <-drainErr)
}

func TestScheduler_DrainTimeout(t *testing.T) {
	s := New(pkgif.Workers(1))
	require.NoError(t, s.Start())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Drain(ctx), context.DeadlineExceeded)
	assert.Equal(t, pkgif.SchedulerDraining, s.State(), "超时后停留在 Draining")

	close(release)
	require.NoError(t, s.Stop())
}

func TestScheduler_StopDiscardsQueued(t *testing.T) {
	s := New(pkgif.Workers(1), pkgif.QueueSize(64))
	require.NoError(t, s.Start())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Submit(func() { count.Add(1) }))
	}

	close(release)
	require.NoError(t, s.Stop())

	assert.Equal(t, pkgif.SchedulerStopped, s.State())
	assert.LessOrEqual(t, count.Load(), int32(10), "Stop 不保证剩余任务执行")
	require.NoError(t, s.Stop(), "Stop 幂等")
}

// ============================================================================
// 溢出策略测试
// ============================================================================

func TestScheduler_PolicyBlock(t *testing.T) {
	s := New(pkgif.Workers(1), pkgif.QueueSize(1), pkgif.WithPolicy(pkgif.PolicyBlock))
	require.NoError(t, s.Start())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, s.Submit(func() {})) // 占满队列

	submitted := make(chan struct{})
	go func() {
		_ = s.Submit(func() {})
		close(submitted)
	}()

	select {
	case <-submitted:
		t.Fatal("队列满时 Submit 应当阻塞")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("出现空位后 Submit 应当返回")
	}

	require.NoError(t, s.Stop())
}

func TestScheduler_PolicyDropOldest(t *testing.T) {
	s := New(pkgif.Workers(1), pkgif.QueueSize(2), pkgif.WithPolicy(pkgif.PolicyDropOldest))
	require.NoError(t, s.Start())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	var executed []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	mark := func(i int) pkgif.Task {
		return func() {
			mu.Lock()
			executed = append(executed, i)
			mu.Unlock()
			wg.Done()
		}
	}

	// 队列容量 2：提交 4 个任务会丢弃最旧的 2 个
	wg.Add(2)
	for i := 1; i <= 4; i++ {
		require.NoError(t, s.Submit(mark(i)))
	}

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3, 4}, executed, "最旧的任务被丢弃，最新的存活")
	assert.Equal(t, int64(2), s.Dropped())

	require.NoError(t, s.Stop())
}

// ============================================================================
// 隔离测试
// ============================================================================

func TestScheduler_TaskPanicIsolated(t *testing.T) {
	var sinkErr error
	var sinkMu sync.Mutex
	s := New(pkgif.Workers(1), pkgif.WithSchedulerSink(func(err error) {
		sinkMu.Lock()
		sinkErr = err
		sinkMu.Unlock()
	}))
	require.NoError(t, s.Start())

	done := make(chan struct{})
	require.NoError(t, s.Submit(func() { panic("task blew up") }))
	require.NoError(t, s.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic 后工作协程应当继续执行后续任务")
	}

	sinkMu.Lock()
	require.Error(t, sinkErr)
	assert.Contains(t, sinkErr.Error(), "task blew up")
	sinkMu.Unlock()

	require.NoError(t, s.Stop())
}
