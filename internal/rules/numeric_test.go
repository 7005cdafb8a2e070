package rules

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func buildInt64Array(mem memory.Allocator, values []int64, nulls []bool) *array.Int64 {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	for i, v := range values {
		if nulls != nil && nulls[i] {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	return b.NewInt64Array()
}

func TestRangeBothBounds(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{-1, 0, 50, 120, 121}, nil)
	defer arr.Release()

	min, max := int64(0), int64(120)
	r := &Range[int64]{Name: "age_bounds", Threshold: 0, Min: &min, Max: &max}
	require.Equal(t, int64(2), r.Validate(WrapInt64(arr)), "values below min and above max both violate")
}

func TestRangeBoundsInclusive(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{0, 120}, nil)
	defer arr.Release()

	min, max := int64(0), int64(120)
	r := &Range[int64]{Name: "bounds", Min: &min, Max: &max}
	require.Equal(t, int64(0), r.Validate(WrapInt64(arr)), "bounds are inclusive")
}

func TestRangeSkipsNulls(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{-1, 0, 0}, []bool{true, false, false})
	defer arr.Release()

	min := int64(0)
	r := &Range[int64]{Name: "min_only", Min: &min}
	require.Equal(t, int64(0), r.Validate(WrapInt64(arr)))
}

func TestRangeOneSidedBounds(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{-5, 5, 500}, nil)
	defer arr.Release()

	max := int64(100)
	r := &Range[int64]{Name: "max_only", Max: &max}
	require.Equal(t, int64(1), r.Validate(WrapInt64(arr)))
}

func TestMonotonicityAscendingViolations(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{1, 2, 2, 1, 5}, nil)
	defer arr.Release()

	m := &Monotonicity[int64]{Name: "asc", Ascending: true}
	require.Equal(t, int64(1), m.Validate(WrapInt64(arr)), "only the 2->1 drop breaks ascending order")
}

func TestMonotonicityDescending(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{5, 4, 4, 9}, nil)
	defer arr.Release()

	m := &Monotonicity[int64]{Name: "desc", Ascending: false}
	require.Equal(t, int64(1), m.Validate(WrapInt64(arr)))
}

func TestMonotonicityEmptyAndSingleElement(t *testing.T) {
	mem := memory.DefaultAllocator

	empty := buildInt64Array(mem, nil, nil)
	defer empty.Release()
	m := &Monotonicity[int64]{Ascending: true}
	require.Equal(t, int64(0), m.Validate(WrapInt64(empty)))

	single := buildInt64Array(mem, []int64{42}, nil)
	defer single.Release()
	require.Equal(t, int64(0), m.Validate(WrapInt64(single)))
}

func TestMonotonicityNullsDoNotBreakTheChain(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildInt64Array(mem, []int64{1, 0, 3}, []bool{false, true, false})
	defer arr.Release()

	m := &Monotonicity[int64]{Ascending: true}
	require.Equal(t, int64(0), m.Validate(WrapInt64(arr)), "null is skipped, so the prior value compares directly with 3")
}

func TestStdDevCheckViolates(t *testing.T) {
	c := &StdDevCheck{MaxStdDev: 2}
	require.False(t, c.Violates(10, 10, 5), "exactly at the mean never violates")
	require.False(t, c.Violates(19, 10, 5), "9/5 = 1.8 under threshold")
	require.True(t, c.Violates(21, 10, 5), "11/5 = 2.2 over threshold")
	require.True(t, c.Violates(20, 10, 5), "10/5 = 2.0 meets threshold, >= is a violation")
}

func TestStdDevCheckZeroStdDevNeverViolates(t *testing.T) {
	c := &StdDevCheck{MaxStdDev: 0}
	require.False(t, c.Violates(1000, 10, 0))
}

func TestMeanVarianceCheckViolates(t *testing.T) {
	c := &MeanVarianceCheck{MaxVariancePercent: 10}
	require.False(t, c.Violates(105, 100, 0), "5% under the 10% allowance")
	require.True(t, c.Violates(115, 100, 0), "15% exceeds the 10% allowance")
}

func TestWrapFloat64AndWrapDate32(t *testing.T) {
	mem := memory.DefaultAllocator

	fb := array.NewFloat64Builder(mem)
	fb.Append(1.1)
	farr := fb.NewFloat64Array()
	fb.Release()
	defer farr.Release()
	wrapped := WrapFloat64(farr)
	require.Equal(t, 1.1, wrapped.Value(0))

	db := array.NewDate32Builder(mem)
	db.Append(100)
	darr := db.NewDate32Array()
	db.Release()
	defer darr.Release()
	dwrapped := WrapDate32(darr)
	require.Equal(t, int32(100), dwrapped.Value(0))
}
