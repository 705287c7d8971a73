package operator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-reactive/internal/core/stream"
	pkgif "github.com/dep2p/go-reactive/pkg/interfaces"
)

// collect 订阅源并收集全部回调
func collect[T any](source pkgif.Observable[T]) (values []T, err error, complete bool) {
	source.Subscribe(stream.NewObserver[T](
		func(v T) { values = append(values, v) },
		func(e error) { err = e },
		func() { complete = true },
	))
	return
}

// ============================================================================
// Map / Filter 测试
// ============================================================================

func TestMap(t *testing.T) {
	src := stream.FromSlice([]int{1, 2, 3})
	doubled := Map(src, func(v int) (int, error) { return v * 2, nil })

	values, err, complete := collect(doubled)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, values)
	assert.True(t, complete)
}

func TestMap_TypeChange(t *testing.T) {
	src := stream.FromSlice([]int{1, 22, 333})
	lens := Map(src, func(v int) (int, error) { return len(itoa(v)), nil })

	values, err, _ := collect(lens)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf []byte
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	return string(buf)
}

func TestMap_ErrorTerminates(t *testing.T) {
	src := stream.FromSlice([]int{1, 2, 3})
	boom := errors.New("boom")
	mapped := Map(src, func(v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})

	values, err, complete := collect(mapped)
	assert.Equal(t, []int{1}, values)
	assert.ErrorIs(t, err, ErrProducer)
	assert.ErrorIs(t, err, boom)
	assert.False(t, complete)
}

func TestMap_PanicBecomesError(t *testing.T) {
	src := stream.FromSlice([]int{1})
	mapped := Map(src, func(int) (int, error) { panic("bad fn") })

	_, err, _ := collect(mapped)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProducer)
}

func TestFilter(t *testing.T) {
	src := stream.Range(1, 10)
	evens := Filter(src, func(v int) bool { return v%2 == 0 })

	values, err, complete := collect(evens)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6, 8, 10}, values)
	assert.True(t, complete)
}

func TestMapFilterComposition(t *testing.T) {
	// map(f) ∘ filter(p) 与手工融合等价
	src := stream.Range(1, 6)
	pipeline := Map(
		Filter(src, func(v int) bool { return v%2 == 1 }),
		func(v int) (int, error) { return v * v, nil },
	)

	values, err, complete := collect(pipeline)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 9, 25}, values)
	assert.True(t, complete)
}

// ============================================================================
// Take / Skip / Distinct 测试
// ============================================================================

func TestTake(t *testing.T) {
	src := stream.Range(0, 10)
	values, err, complete := collect(Take(src, 3))

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, values)
	assert.True(t, complete, "取满后必须完成")
}

func TestTake_ZeroCompletesWithoutSubscribing(t *testing.T) {
	upstream := stream.New[int]()
	values, err, complete := collect(Take[int](upstream, 0))

	require.NoError(t, err)
	assert.Empty(t, values)
	assert.True(t, complete)
	assert.Equal(t, 0, upstream.Observers(), "n<=0 时不订阅上游")
}

func TestTake_UnsubscribesUpstream(t *testing.T) {
	upstream := stream.New[int]()
	var got []int
	Take[int](upstream, 2).Subscribe(stream.OnNext(func(v int) {
		got = append(got, v)
	}))

	require.Equal(t, 1, upstream.Observers())

	upstream.EmitNext(1)
	upstream.EmitNext(2)

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, upstream.Observers(), "取满后立即退订上游")

	upstream.EmitNext(3)
	assert.Equal(t, []int{1, 2}, got)
}

func TestTake_FewerThanN(t *testing.T) {
	src := stream.FromSlice([]int{1, 2})
	values, _, complete := collect(Take(src, 5))

	assert.Equal(t, []int{1, 2}, values)
	assert.True(t, complete, "上游提前完成时传递完成信号")
}

func TestSkip(t *testing.T) {
	src := stream.Range(0, 5)
	values, err, complete := collect(Skip(src, 2))

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, values)
	assert.True(t, complete)
}

func TestSkip_All(t *testing.T) {
	src := stream.FromSlice([]int{1, 2})
	values, _, complete := collect(Skip(src, 10))

	assert.Empty(t, values)
	assert.True(t, complete)
}

func TestDistinct(t *testing.T) {
	src := stream.FromSlice([]int{1, 1, 2, 1, 3, 2, 3})
	values, err, complete := collect(Distinct(src))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values, "重复值只通过一次")
	assert.True(t, complete)
}

func TestDistinct_PerSubscription(t *testing.T) {
	src := stream.FromSlice([]int{7, 7})
	deduped := Distinct(src)

	// 去重状态按订阅独立，第二次订阅重新开始
	for i := 0; i < 2; i++ {
		values, _, _ := collect(deduped)
		assert.Equal(t, []int{7}, values)
	}
}

// ============================================================================
// 下游退订测试
// ============================================================================

func TestOperator_DownstreamUnsubscribe(t *testing.T) {
	upstream := stream.New[int]()
	var got []int
	sub := Map[int, int](upstream, func(v int) (int, error) { return v, nil }).
		Subscribe(stream.OnNext(func(v int) { got = append(got, v) }))

	upstream.EmitNext(1)
	sub.Unsubscribe()
	upstream.EmitNext(2)

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, upstream.Observers(), "退订沿管线向上传播")
}
