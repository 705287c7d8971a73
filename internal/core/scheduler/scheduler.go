package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
	"github.com/dep2p/go-reactive/pkg/lib/log"
)

var logger = log.Logger("core/scheduler")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrNotStarted 调度器尚未启动
	ErrNotStarted = errors.New("scheduler not started")
	// ErrAlreadyStarted 调度器已启动
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrDraining 调度器排空中，不接受新任务
	ErrDraining = errors.New("scheduler draining")
	// ErrStopped 调度器已停止
	ErrStopped = errors.New("scheduler stopped")
)

// 默认配置
const (
	defaultWorkers   = 4
	defaultQueueSize = 256
)

// ============================================================================
// Scheduler 实现
// ============================================================================

// Scheduler 有界队列 + 工作协程池的调度器
type Scheduler struct {
	// submitMu 保护 Submit 与状态迁移（含关闭队列）的互斥
	submitMu sync.RWMutex

	state  atomic.Int32
	queue  chan pkgif.Task
	policy pkgif.OverflowPolicy
	sink   pkgif.ErrorSink

	workers int
	group   *errgroup.Group

	stopCh   chan struct{}
	stopOnce sync.Once

	// dropped 被 PolicyDropOldest 丢弃的任务计数
	dropped atomic.Int64
}

// New 创建新的调度器（Idle 状态）
func New(opts ...pkgif.SchedulerOpt) *Scheduler {
	settings := &pkgif.SchedulerSettings{
		Workers:   defaultWorkers,
		QueueSize: defaultQueueSize,
		Policy:    pkgif.PolicyBlock,
	}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.Workers <= 0 {
		settings.Workers = defaultWorkers
	}
	if settings.QueueSize <= 0 {
		settings.QueueSize = defaultQueueSize
	}

	s := &Scheduler{
		queue:   make(chan pkgif.Task, settings.QueueSize),
		policy:  settings.Policy,
		workers: settings.Workers,
		sink:    settings.Sink,
		stopCh:  make(chan struct{}),
	}
	s.state.Store(int32(pkgif.SchedulerIdle))
	return s
}

// Start 启动工作协程
func (s *Scheduler) Start() error {
	if !s.state.CompareAndSwap(int32(pkgif.SchedulerIdle), int32(pkgif.SchedulerRunning)) {
		if s.State() == pkgif.SchedulerRunning {
			return ErrAlreadyStarted
		}
		return ErrStopped
	}

	s.group = &errgroup.Group{}
	for i := 0; i < s.workers; i++ {
		s.group.Go(s.worker)
	}

	logger.Debug("scheduler started",
		"workers", s.workers,
		"queue_size", cap(s.queue))
	return nil
}

// Submit 提交任务
//
// PolicyBlock 下队列满时阻塞直到有空位或调度器停止；
// PolicyDropOldest 下丢弃最旧任务为新任务腾出空位。
func (s *Scheduler) Submit(task pkgif.Task) error {
	if task == nil {
		return nil
	}

	s.submitMu.RLock()
	defer s.submitMu.RUnlock()

	switch s.State() {
	case pkgif.SchedulerIdle:
		return ErrNotStarted
	case pkgif.SchedulerDraining:
		return ErrDraining
	case pkgif.SchedulerStopped:
		return ErrStopped
	}

	if s.policy == pkgif.PolicyDropOldest {
		for {
			select {
			case s.queue <- task:
				return nil
			default:
			}
			// 队列满：丢弃最旧任务后重试
			select {
			case <-s.queue:
				dropped := s.dropped.Add(1)
				if dropped%100 == 1 {
					logger.Warn("queue overflow",
						"dropped", dropped,
						"policy", "drop-oldest")
				}
			default:
			}
		}
	}

	select {
	case s.queue <- task:
		return nil
	case <-s.stopCh:
		return ErrStopped
	}
}

// Drain 排空
//
// 拒绝新任务，等待已入队任务全部执行完毕后转入 Stopped。
// ctx 超时或取消时提前返回，调度器停留在 Draining。
func (s *Scheduler) Drain(ctx context.Context) error {
	s.submitMu.Lock()
	if !s.state.CompareAndSwap(int32(pkgif.SchedulerRunning), int32(pkgif.SchedulerDraining)) {
		s.submitMu.Unlock()
		switch s.State() {
		case pkgif.SchedulerIdle:
			return ErrNotStarted
		case pkgif.SchedulerStopped:
			return ErrStopped
		default:
			return ErrDraining
		}
	}
	// 此后不会再有 Submit 进入发送路径，关闭队列是安全的
	close(s.queue)
	s.submitMu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = s.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.state.Store(int32(pkgif.SchedulerStopped))
		logger.Debug("scheduler drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop 停止
//
// 丢弃剩余任务并释放工作协程。幂等。
func (s *Scheduler) Stop() error {
	s.submitMu.Lock()
	st := s.State()
	if st == pkgif.SchedulerIdle {
		s.state.Store(int32(pkgif.SchedulerStopped))
		s.submitMu.Unlock()
		return nil
	}
	if st == pkgif.SchedulerStopped {
		s.submitMu.Unlock()
		return nil
	}
	s.state.Store(int32(pkgif.SchedulerStopped))
	s.submitMu.Unlock()

	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	_ = s.group.Wait()

	// 统计被丢弃的剩余任务
	discarded := 0
	for {
		select {
		case _, ok := <-s.queue:
			if !ok {
				if discarded > 0 {
					logger.Debug("scheduler stopped", "discarded", discarded)
				}
				return nil
			}
			discarded++
		default:
			if discarded > 0 {
				logger.Debug("scheduler stopped", "discarded", discarded)
			}
			return nil
		}
	}
}

// State 返回当前状态
func (s *Scheduler) State() pkgif.SchedulerState {
	return pkgif.SchedulerState(s.state.Load())
}

// QueueDepth 返回当前队列深度
func (s *Scheduler) QueueDepth() int {
	return len(s.queue)
}

// Dropped 返回被丢弃的任务总数
func (s *Scheduler) Dropped() int64 {
	return s.dropped.Load()
}

// ============================================================================
// 内部方法
// ============================================================================

// worker 工作协程主循环
//
// Stopped 状态下立即退出并丢弃剩余任务；
// 队列关闭（Draining）后执行完剩余任务退出。
func (s *Scheduler) worker() error {
	for {
		select {
		case <-s.stopCh:
			return nil
		default:
		}

		select {
		case <-s.stopCh:
			return nil
		case task, ok := <-s.queue:
			if !ok {
				return nil
			}
			s.run(task)
		}
	}
}

// run 执行任务并隔离 panic
func (s *Scheduler) run(task pkgif.Task) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("task panic: %v", r)
			if s.sink != nil {
				s.sink(err)
				return
			}
			logger.Error("task panic", "panic", fmt.Sprint(r))
		}
	}()

	task()
}

// 接口契约检查
var _ pkgif.Scheduler = (*Scheduler)(nil)
