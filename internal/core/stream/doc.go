// Package stream 实现推送式流核心
//
// 提供生产者驱动的多播流抽象，支持：
//   - 三通道契约（next/error/complete）
//   - 按注册顺序的 FIFO 投递
//   - 终态不变式与迟到订阅者的终态重放
//   - 观察者回调异常隔离
//   - 幂等、同步生效的取消订阅
//
// # 快速开始
//
//	s := stream.New[int]()
//
//	sub := s.Subscribe(stream.NewObserver(
//	    func(v int) { fmt.Println("next:", v) },
//	    func(err error) { fmt.Println("error:", err) },
//	    func() { fmt.Println("complete") },
//	))
//	defer sub.Unsubscribe()
//
//	s.EmitNext(1)
//	s.EmitNext(2)
//	s.EmitComplete()
//
// # 冷热语义
//
// Stream 是生产者驱动的多播核心：已终止的流只向迟到订阅者
// 重放终态通知，不重放历史值。Subject 在此之上叠加 Observer
// 能力，作为显式的热共享入口。按订阅独立重放的冷生产者见
// FromSlice / Just / Range。
//
// # 并发安全
//
// 观察者列表的变更（订阅/取消订阅）与发射迭代互斥：
// 发射路径在短持锁内取快照，投递在锁外进行，
// 每次回调前检查注册的活跃标记，保证取消订阅同步生效。
//
// # 架构定位
//
// Tier: Core Layer Level 1（无内部依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces
//   - 被依赖：operator, combine, eventbus
package stream
