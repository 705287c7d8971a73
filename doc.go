// Package reactive 提供进程内响应式流处理引擎
//
// go-reactive 是一个模块化的响应式流库：
// 推送式数据流、可组合的变换算子，以及按主题名路由的异步事件总线。
//
// # 核心概念
//
// 引擎围绕四个核心概念构建：
//
//   - Stream: 推送式多播流，生产者发射、观察者接收
//   - Operator: 单输入流变换（Map/Filter/Take/Skip/Distinct/Debounce/Throttle）
//   - Combinator: 多输入流组合（Merge/Concat/Zip/SwitchMap）
//   - EventBus: 按主题名的异步发布/订阅总线，背靠有界队列调度器
//
// # 快速开始
//
//	import reactive "github.com/dep2p/go-reactive"
//
//	// 1. 组合流管线
//	evens := reactive.Filter(
//	    reactive.Range(0, 100),
//	    func(v int) bool { return v%2 == 0 },
//	)
//	reactive.Take(evens, 5).Subscribe(reactive.OnNext(func(v int) {
//	    fmt.Println(v)
//	}))
//
//	// 2. 使用事件总线
//	bus := reactive.NewBus()
//	defer bus.Close()
//
//	bus.Subscribe("orders", reactive.OnNext(func(v any) {
//	    handleOrder(v)
//	}))
//	bus.Publish("orders", order)
//
// # API 层次结构
//
//	┌────────────────────────────────────────────────────────┐
//	│  入口层                                                 │
//	│  reactive.NewStream() / reactive.NewBus()              │
//	├────────────────────────────────────────────────────────┤
//	│  算子层                                                 │
//	│  Map / Filter / Take / Debounce / Merge / Zip / ...    │
//	├────────────────────────────────────────────────────────┤
//	│  调度层                                                 │
//	│  Scheduler（有界队列 + 工作协程池）                      │
//	├────────────────────────────────────────────────────────┤
//	│  存储层                                                 │
//	│  EventLog（内存 / BadgerDB 追加日志）                    │
//	└────────────────────────────────────────────────────────┘
//
// # 投递语义
//
// Stream 是同步多播：发射调用在全部观察者回调返回后才返回，
// 单一生产者场景下观察者看到的顺序即发射顺序。
// EventBus 是异步投递：Publish 入队即返回，
// 同一主题内保持发布顺序，不同主题之间无顺序约定。
//
// # 文件组织
//
//   - reactive.go: 构造函数与算子的公开入口
//   - errors.go: 哨兵错误再导出
//   - fx.go: Fx 模块组装
package reactive
