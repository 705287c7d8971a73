// Package lib 聚合 go-reactive 的基础库
//
// 子包：
//   - log: 基于 log/slog 的统一日志接口
package lib
