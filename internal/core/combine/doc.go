// Package combine 实现多输入流组合器
//
// 组合器消费两个或更多 Observable 并产出一个，
// 需要内部缓冲与多源完成跟踪：
//
//   - Merge: 按到达顺序交错转发任一来源的值；全部来源完成后才完成；
//     任一来源出错立即转发并取消其余订阅
//   - Concat: 严格按序订阅来源；前一来源完成前绝不订阅后一来源
//   - Zip: 按索引对齐配对两个来源的值；任一来源完成且其缓冲耗尽时完成
//   - SwitchMap: 每个上游值切换到新的内部流，过期内部流被静默取消
//
// SwitchMap 是唯一在正常运行中需要显式、有序取消活跃订阅的组合器。
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：pkg/interfaces, internal/core/stream
//   - 被依赖：根包 reactive
package combine
