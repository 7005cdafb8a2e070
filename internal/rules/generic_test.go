package rules

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestNullCheckCountsNullsOnly(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"a", "", "c", ""}, []bool{false, true, false, true})
	defer arr.Release()

	c := &NullCheck{Threshold: 0}
	require.Equal(t, "NullCheck", c.RuleName())
	require.Equal(t, int64(2), c.Validate(arr))
}

func TestNullCheckZeroOnFullColumn(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"a", "b"}, nil)
	defer arr.Release()

	c := &NullCheck{Threshold: 0}
	require.Equal(t, int64(0), c.Validate(arr))
}

func TestUnicityCheckName(t *testing.T) {
	c := &UnicityCheck{Threshold: 0}
	require.Equal(t, "Unicity", c.RuleName())
}

func TestHashNonNullStringSkipsNullsAndIsDeterministic(t *testing.T) {
	mem := memory.DefaultAllocator
	arr := buildStringArray(mem, []string{"a", "", "a"}, []bool{false, true, false})
	defer arr.Release()

	hashes := HashNonNullString(arr)
	require.Len(t, hashes, 2, "the null cell contributes no hash")
	require.Equal(t, hashes[0], hashes[1], "equal values must hash equally across calls")
}

func TestHashNonNullInt64(t *testing.T) {
	mem := memory.DefaultAllocator
	b := array.NewInt64Builder(mem)
	b.Append(7)
	b.AppendNull()
	b.Append(7)
	arr := b.NewInt64Array()
	b.Release()
	defer arr.Release()

	hashes := HashNonNullInt64(arr)
	require.Len(t, hashes, 2)
	require.Equal(t, hashes[0], hashes[1])
}

func TestHashNonNullFloat64DistinguishesValues(t *testing.T) {
	mem := memory.DefaultAllocator
	b := array.NewFloat64Builder(mem)
	b.Append(1.5)
	b.Append(2.5)
	arr := b.NewFloat64Array()
	b.Release()
	defer arr.Release()

	hashes := HashNonNullFloat64(arr)
	require.Len(t, hashes, 2)
	require.NotEqual(t, hashes[0], hashes[1])
}

func TestHashNonNullDate32(t *testing.T) {
	mem := memory.DefaultAllocator
	b := array.NewDate32Builder(mem)
	b.Append(100)
	b.AppendNull()
	arr := b.NewDate32Array()
	b.Release()
	defer arr.Release()

	hashes := HashNonNullDate32(arr)
	require.Len(t, hashes, 1)
}
