package operator

import "github.com/benbjohnson/clock"

// Opt 时间算子选项函数类型
type Opt func(*settings)

// settings 时间算子设置
type settings struct {
	clock clock.Clock
}

// newSettings 构造默认设置
func newSettings(opts []Opt) *settings {
	s := &settings{
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithClock 注入时钟
//
// 测试中用 clock.NewMock() 确定性驱动 Debounce/Throttle。
func WithClock(c clock.Clock) Opt {
	return func(s *settings) {
		s.clock = c
	}
}
