package rules

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func buildStringArray(mem memory.Allocator, values []string, nulls []bool) *array.String {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	for i, v := range values {
		if nulls != nil && nulls[i] {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	return b.NewStringArray()
}

func TestCastStringToInt64(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"1", "not-a-number", "3"}, nil)
	defer arr.Release()

	out, failures := CastStringToInt64(mem, arr)
	defer out.Release()

	require.Equal(t, int64(1), failures)
	require.Equal(t, 3, out.Len())
	require.False(t, out.IsNull(0))
	require.Equal(t, int64(1), out.Value(0))
	require.True(t, out.IsNull(1))
	require.Equal(t, int64(3), out.Value(2))
}

func TestCastStringToInt64SkipsSourceNulls(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"1", "", "3"}, []bool{false, true, false})
	defer arr.Release()

	out, failures := CastStringToInt64(mem, arr)
	defer out.Release()

	require.Equal(t, int64(0), failures, "a null source cell is not a cast failure")
	require.True(t, out.IsNull(1))
}

func TestCastStringToFloat64(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"1.5", "oops", "-2.25"}, nil)
	defer arr.Release()

	out, failures := CastStringToFloat64(mem, arr)
	defer out.Release()

	require.Equal(t, int64(1), failures)
	require.Equal(t, 1.5, out.Value(0))
	require.True(t, out.IsNull(1))
	require.Equal(t, -2.25, out.Value(2))
}

func TestCastStringToDate32(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"2024-01-15", "not-a-date"}, nil)
	defer arr.Release()

	out, failures := CastStringToDate32(mem, arr, "2006-01-02")
	defer out.Release()

	require.Equal(t, int64(1), failures)
	require.False(t, out.IsNull(0))
	require.True(t, out.IsNull(1))
}

func TestCastStringToDate32AllValid(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"2024-01-01", "2024-12-31"}, nil)
	defer arr.Release()

	out, failures := CastStringToDate32(mem, arr, "2006-01-02")
	defer out.Release()

	require.Equal(t, int64(0), failures)
	require.Equal(t, 2, out.Len())
}
