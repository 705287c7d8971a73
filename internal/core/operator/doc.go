// Package operator 实现单输入流变换
//
// 每个算子都是 Observable[T] -> Observable[U] 的纯变换：
// 内部订阅上游，将变换后的通知转发给下游。
// 在下游 Subscribe 之前没有任何副作用，
// 每次订阅获得隔离的算子状态（seen 集合、计数器、定时器）。
//
// # 算子一览
//
//   - Map: 变换每个值；变换函数出错或 panic 时向下游转发错误并终止
//   - Filter: 只转发满足谓词的值
//   - Take: 转发前 n 个值后合成完成信号并立即取消上游订阅
//   - Skip: 丢弃前 n 个值
//   - Distinct: 只转发首次出现的值（按值相等判定）
//   - Debounce: 突发序列中只有最后一个值在静默期后存活
//   - Throttle: 窗口期内只转发第一个值
//
// # 时间算子
//
// Debounce/Throttle 的定时依赖注入的 clock.Clock，
// 默认为真实时钟；测试中通过 WithClock(clock.NewMock()) 驱动。
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：pkg/interfaces, internal/core/stream
//   - 被依赖：根包 reactive
package operator
