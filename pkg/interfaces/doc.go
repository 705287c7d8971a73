// Package interfaces 定义 go-reactive 的公共接口
//
// 本包只声明契约，不含实现，保持零依赖：
//
//   - stream.go: Observer / Observable / Subscription 三通道契约
//   - scheduler.go: 调度器状态机与溢出策略
//   - eventbus.go: 按主题名的发布/订阅契约
//   - eventlog.go: 追加/重放日志边界
//
// 实现位于 internal/core 下的对应包，
// 公共构造入口统一从根包 reactive 导出。
package interfaces
