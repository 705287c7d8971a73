// Package interfaces 定义 go-reactive 公共接口
//
// 本文件定义调度器接口，提供异步通知分发能力。
package interfaces

import "context"

// Task 调度任务
type Task func()

// SchedulerState 调度器状态
type SchedulerState int32

const (
	// SchedulerIdle 已构造，尚未启动
	SchedulerIdle SchedulerState = iota
	// SchedulerRunning 运行中，接受并执行任务
	SchedulerRunning
	// SchedulerDraining 排空中，不再接受新任务，已入队任务继续执行
	SchedulerDraining
	// SchedulerStopped 已停止，丢弃剩余任务并释放工作协程
	SchedulerStopped
)

// String 返回状态名称
func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerRunning:
		return "running"
	case SchedulerDraining:
		return "draining"
	case SchedulerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// OverflowPolicy 队列溢出策略
type OverflowPolicy int

const (
	// PolicyBlock 队列满时阻塞提交者（默认，避免静默丢失）
	PolicyBlock OverflowPolicy = iota
	// PolicyDropOldest 队列满时丢弃最旧任务（显式选择，面向低延迟场景）
	PolicyDropOldest
)

// Scheduler 定义调度器接口
//
// Scheduler 持有有界工作队列和一个或多个工作协程，
// 将通知任务从发射线程解耦到工作协程执行。
type Scheduler interface {
	// Start 启动工作协程
	Start() error

	// Submit 提交任务
	//
	// PolicyBlock 下队列满时阻塞；PolicyDropOldest 下丢弃最旧任务。
	// 调度器处于 Draining/Stopped 状态时返回错误。
	Submit(task Task) error

	// Drain 排空：拒绝新任务，等待已入队任务执行完毕
	Drain(ctx context.Context) error

	// Stop 停止：丢弃剩余任务，释放工作协程
	Stop() error

	// State 返回当前状态
	State() SchedulerState
}

// SchedulerSettings 调度器设置（导出以供实现使用）
type SchedulerSettings struct {
	// Workers 工作协程数量
	Workers int
	// QueueSize 工作队列容量
	QueueSize int
	// Policy 队列溢出策略
	Policy OverflowPolicy
	// Sink 异常上报回调
	Sink ErrorSink
}

// SchedulerOpt 调度器选项函数类型
type SchedulerOpt func(*SchedulerSettings)

// Workers 设置工作协程数量
func Workers(n int) SchedulerOpt {
	return func(s *SchedulerSettings) {
		s.Workers = n
	}
}

// QueueSize 设置工作队列容量
func QueueSize(n int) SchedulerOpt {
	return func(s *SchedulerSettings) {
		s.QueueSize = n
	}
}

// WithPolicy 设置队列溢出策略
func WithPolicy(p OverflowPolicy) SchedulerOpt {
	return func(s *SchedulerSettings) {
		s.Policy = p
	}
}

// WithSchedulerSink 设置调度器异常上报回调
func WithSchedulerSink(sink ErrorSink) SchedulerOpt {
	return func(s *SchedulerSettings) {
		s.Sink = sink
	}
}
