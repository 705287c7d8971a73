// Package eventlog 实现追加/重放日志
//
// 这是持久化事件存储的最小协作方边界：
// Append 追加一条不透明数据并返回位置，
// ReadFrom 从指定位置按序重放。
// 引擎不解释条目内容，只依赖位置的全序。
//
// # 实现
//
//   - MemoryLog: 内存切片实现，用于测试与易失场景
//   - BadgerLog: BadgerDB 实现，键为 8 字节大端序位置
//
// # 使用示例
//
//	journal, err := eventlog.OpenBadger(dir)
//	if err != nil {
//	    return err
//	}
//	defer journal.Close()
//
//	pos, _ := journal.Append(ctx, data)
//	entries, _ := journal.ReadFrom(ctx, 0)
//
// # 架构定位
//
// Tier: Core Layer Level 1（无内部依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces
//   - 被依赖：eventbus（WithJournal 发布日志）
package eventlog
