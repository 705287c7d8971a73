// Package metrics 实现事件总线指标
//
// 基于 prometheus/client_golang 提供总线级计数器与队列深度仪表：
//
//   - reactive_bus_published_total: 按主题的发布计数
//   - reactive_bus_delivered_total: 按主题的投递计数
//   - reactive_bus_dropped_no_subscriber_total: 无订阅者丢弃计数
//   - reactive_bus_dropped_overflow_total: 队列溢出丢弃计数
//   - reactive_bus_queue_depth: 按主题的队列深度
//
// 背压溢出只通过指标上报，绝不作为错误抛给发布者。
// Registerer 可选注入；为空时指标仍可用但不对外暴露。
package metrics
