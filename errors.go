package reactive

import (
	"github.com/dep2p/go-reactive/internal/core/eventbus"
	"github.com/dep2p/go-reactive/internal/core/eventlog"
	"github.com/dep2p/go-reactive/internal/core/operator"
	"github.com/dep2p/go-reactive/internal/core/scheduler"
)

// ============================================================================
// 哨兵错误再导出
// ============================================================================

var (
	// ErrProducer 算子的用户函数失败（返回错误或 panic）
	ErrProducer = operator.ErrProducer

	// ErrSchedulerNotStarted 调度器尚未启动
	ErrSchedulerNotStarted = scheduler.ErrNotStarted
	// ErrSchedulerAlreadyStarted 调度器已启动
	ErrSchedulerAlreadyStarted = scheduler.ErrAlreadyStarted
	// ErrSchedulerDraining 调度器排空中，不接受新任务
	ErrSchedulerDraining = scheduler.ErrDraining
	// ErrSchedulerStopped 调度器已停止
	ErrSchedulerStopped = scheduler.ErrStopped

	// ErrBusClosed 总线已关闭
	ErrBusClosed = eventbus.ErrClosed
	// ErrInvalidTopic 主题名为空
	ErrInvalidTopic = eventbus.ErrInvalidTopic
	// ErrNilObserver 观察者为 nil
	ErrNilObserver = eventbus.ErrNilObserver

	// ErrLogClosed 事件日志已关闭
	ErrLogClosed = eventlog.ErrLogClosed
)
