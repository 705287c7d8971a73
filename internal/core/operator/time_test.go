package operator

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-reactive/internal/core/stream"
)

// ============================================================================
// Debounce 测试
// ============================================================================

func TestDebounce_CollapsesBurst(t *testing.T) {
	mock := clock.NewMock()
	upstream := stream.New[int]()

	var got []int
	Debounce[int](upstream, 50*time.Millisecond, WithClock(mock)).
		Subscribe(stream.OnNext(func(v int) { got = append(got, v) }))

	// t=0/10/20ms 的突发只有最后一个值存活
	upstream.EmitNext(1)
	mock.Add(10 * time.Millisecond)
	upstream.EmitNext(2)
	mock.Add(10 * time.Millisecond)
	upstream.EmitNext(3)

	mock.Add(40 * time.Millisecond)
	assert.Empty(t, got, "静默期未满不得发射")

	mock.Add(10 * time.Millisecond)
	assert.Equal(t, []int{3}, got, "静默期满后只发射最近的值")
}

func TestDebounce_SeparatedValuesAllPass(t *testing.T) {
	mock := clock.NewMock()
	upstream := stream.New[int]()

	var got []int
	Debounce[int](upstream, 50*time.Millisecond, WithClock(mock)).
		Subscribe(stream.OnNext(func(v int) { got = append(got, v) }))

	upstream.EmitNext(1)
	mock.Add(60 * time.Millisecond)
	upstream.EmitNext(2)
	mock.Add(60 * time.Millisecond)

	assert.Equal(t, []int{1, 2}, got, "间隔超过静默期的值全部通过")
}

func TestDebounce_FlushOnComplete(t *testing.T) {
	mock := clock.NewMock()
	upstream := stream.New[int]()

	var got []int
	var complete bool
	Debounce[int](upstream, 50*time.Millisecond, WithClock(mock)).
		Subscribe(stream.NewObserver[int](
			func(v int) { got = append(got, v) },
			nil,
			func() { complete = true },
		))

	upstream.EmitNext(42)
	upstream.EmitComplete()

	assert.Equal(t, []int{42}, got, "完成时先投递待定值")
	assert.True(t, complete)
}

func TestDebounce_UnsubscribeDropsPending(t *testing.T) {
	mock := clock.NewMock()
	upstream := stream.New[int]()

	var got []int
	sub := Debounce[int](upstream, 50*time.Millisecond, WithClock(mock)).
		Subscribe(stream.OnNext(func(v int) { got = append(got, v) }))

	upstream.EmitNext(1)
	sub.Unsubscribe()
	mock.Add(100 * time.Millisecond)

	assert.Empty(t, got, "退订后待定值不再发射")
	assert.Equal(t, 0, upstream.Observers())
}

// ============================================================================
// Throttle 测试
// ============================================================================

func TestThrottle_FirstPassesWindowDrops(t *testing.T) {
	mock := clock.NewMock()
	upstream := stream.New[int]()

	var got []int
	Throttle[int](upstream, 100*time.Millisecond, WithClock(mock)).
		Subscribe(stream.OnNext(func(v int) { got = append(got, v) }))

	upstream.EmitNext(1)
	mock.Add(10 * time.Millisecond)
	upstream.EmitNext(2)
	mock.Add(10 * time.Millisecond)
	upstream.EmitNext(3)

	assert.Equal(t, []int{1}, got, "窗口内只有第一个值通过")

	mock.Add(100 * time.Millisecond)
	upstream.EmitNext(4)
	assert.Equal(t, []int{1, 4}, got, "窗口结束后的下一个值通过")
}

func TestThrottle_ForwardsTerminal(t *testing.T) {
	mock := clock.NewMock()
	upstream := stream.New[int]()

	var complete bool
	Throttle[int](upstream, 100*time.Millisecond, WithClock(mock)).
		Subscribe(stream.NewObserver[int](nil, nil, func() { complete = true }))

	upstream.EmitNext(1)
	upstream.EmitComplete()
	require.True(t, complete)
}
