// Package interfaces 定义 go-reactive 公共接口
//
// 本文件定义 EventLog 协作方边界：追加/重放契约。
// 引擎将日志视为不透明的有序字节序列，不解释其存储格式。
package interfaces

import "context"

// LogEntry 日志条目
type LogEntry struct {
	// Position 条目在日志中的位置（从 0 递增）
	Position uint64
	// Data 条目数据（引擎不解释）
	Data []byte
}

// EventLog 定义追加/重放日志接口
//
// 这是持久化事件存储的最小边界契约，
// 具体存储后端（内存、BadgerDB）由实现决定。
type EventLog interface {
	// Append 追加一条数据，返回其位置
	Append(ctx context.Context, data []byte) (uint64, error)

	// ReadFrom 从指定位置开始按序读取所有条目
	ReadFrom(ctx context.Context, position uint64) ([]LogEntry, error)

	// Len 返回日志中的条目数量
	Len() uint64

	// Close 关闭日志
	Close() error
}
