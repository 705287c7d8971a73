package eventlog

import (
	"context"
	"errors"
	"sync"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrLogClosed 日志已关闭
	ErrLogClosed = errors.New("eventlog closed")
)

// ============================================================================
// MemoryLog 实现
// ============================================================================

// MemoryLog 内存日志
//
// 条目保存在切片中，位置即索引。并发安全。
type MemoryLog struct {
	mu      sync.RWMutex
	entries [][]byte
	closed  bool
}

// NewMemory 创建内存日志
func NewMemory() *MemoryLog {
	return &MemoryLog{}
}

// Append 追加一条数据，返回其位置
func (l *MemoryLog) Append(_ context.Context, data []byte) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrLogClosed
	}

	// 拷贝入库，调用方可复用缓冲
	buf := make([]byte, len(data))
	copy(buf, data)
	l.entries = append(l.entries, buf)
	return uint64(len(l.entries) - 1), nil
}

// ReadFrom 从指定位置开始按序读取所有条目
func (l *MemoryLog) ReadFrom(_ context.Context, position uint64) ([]pkgif.LogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, ErrLogClosed
	}
	if position >= uint64(len(l.entries)) {
		return nil, nil
	}

	out := make([]pkgif.LogEntry, 0, uint64(len(l.entries))-position)
	for i := position; i < uint64(len(l.entries)); i++ {
		buf := make([]byte, len(l.entries[i]))
		copy(buf, l.entries[i])
		out = append(out, pkgif.LogEntry{Position: i, Data: buf})
	}
	return out, nil
}

// Len 返回日志中的条目数量
func (l *MemoryLog) Len() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.entries))
}

// Close 关闭日志
func (l *MemoryLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// 接口契约检查
var _ pkgif.EventLog = (*MemoryLog)(nil)
