package eventbus

import pkgif "github.com/dep2p/go-reactive/pkg/interfaces"

// ============================================================================
// 本地选项函数
// ============================================================================

// QueueSize 设置每个主题的队列容量
//
// 这是一个便利函数，与 pkg/interfaces.BusQueueSize 等效
func QueueSize(n int) pkgif.BusOpt {
	return pkgif.BusQueueSize(n)
}

// DropOldest 设置队列溢出策略为丢弃最旧事件
//
// 这是一个便利函数，与 pkg/interfaces.BusPolicy(PolicyDropOldest) 等效
func DropOldest() pkgif.BusOpt {
	return pkgif.BusPolicy(pkgif.PolicyDropOldest)
}

// Workers 设置内部调度器的工作协程数量
//
// 这是一个便利函数，与 pkg/interfaces.BusWorkers 等效
func Workers(n int) pkgif.BusOpt {
	return pkgif.BusWorkers(n)
}
