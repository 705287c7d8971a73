package eventlog

import (
	"context"
	"encoding/binary"
	"sync/atomic"

	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
	"github.com/dep2p/go-reactive/pkg/lib/log"
	"github.com/dgraph-io/badger/v4"
)

// logger 是事件日志的日志记录器
var logger = log.Logger("core/eventlog")

// ============================================================================
// BadgerLog 实现
// ============================================================================

// BadgerLog 基于 BadgerDB 的持久化日志
//
// 键为 8 字节大端序位置，保证迭代顺序与追加顺序一致。
type BadgerLog struct {
	db     *badger.DB
	next   atomic.Uint64
	closed atomic.Bool
}

// OpenBadger 打开（或创建）位于 dir 的持久化日志
func OpenBadger(dir string) (*BadgerLog, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	l := &BadgerLog{db: db}

	// 反向迭代恢复下一个写入位置
	err = db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Reverse = true
		itOpts.PrefetchValues = false
		it := txn.NewIterator(itOpts)
		defer it.Close()

		it.Seek([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
		if it.Valid() {
			key := it.Item().Key()
			if len(key) == 8 {
				l.next.Store(binary.BigEndian.Uint64(key) + 1)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("eventlog opened", "dir", dir, "next", l.next.Load())
	return l, nil
}

// Append 追加一条数据，返回其位置
func (l *BadgerLog) Append(_ context.Context, data []byte) (uint64, error) {
	if l.closed.Load() {
		return 0, ErrLogClosed
	}

	pos := l.next.Add(1) - 1
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, pos)

	err := l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return 0, err
	}
	return pos, nil
}

// ReadFrom 从指定位置开始按序读取所有条目
func (l *BadgerLog) ReadFrom(_ context.Context, position uint64) ([]pkgif.LogEntry, error) {
	if l.closed.Load() {
		return nil, ErrLogClosed
	}

	start := make([]byte, 8)
	binary.BigEndian.PutUint64(start, position)

	var out []pkgif.LogEntry
	err := l.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(start); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != 8 {
				continue
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, pkgif.LogEntry{
				Position: binary.BigEndian.Uint64(key),
				Data:     data,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len 返回日志中的条目数量
func (l *BadgerLog) Len() uint64 {
	return l.next.Load()
}

// Close 关闭日志
func (l *BadgerLog) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.db.Close()
}

// 接口契约检查
var _ pkgif.EventLog = (*BadgerLog)(nil)
