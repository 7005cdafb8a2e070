package unicity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinalizeNoDuplicates(t *testing.T) {
	acc := NewAccumulator([]string{"id"})
	acc.RecordHashes("id", []uint64{1, 2, 3})

	dup := acc.Finalize(3, nil)
	require.Equal(t, int64(0), dup["id"].Duplicates)
}

func TestFinalizeWithDuplicatesAndNulls(t *testing.T) {
	acc := NewAccumulator([]string{"email"})
	// batch1: a, null, a, null -> hashes recorded are only for "a" (non-null)
	acc.RecordHashes("email", []uint64{42})

	dup := acc.Finalize(4, map[string]int64{"email": 2})
	// total_rows(4) - distinct(1) - nulls(2) = 1
	require.Equal(t, int64(1), dup["email"].Duplicates)
	// non-null count = 2, 1 duplicate -> rate 0.5
	require.Equal(t, 0.5, dup["email"].DuplicateRateNonNull)
}

func TestFinalizeMergesAcrossBatches(t *testing.T) {
	acc := NewAccumulator([]string{"id"})
	acc.RecordHashes("id", []uint64{1, 2, 3})
	acc.RecordHashes("id", []uint64{3, 4})

	dup := acc.Finalize(5, nil)
	// distinct = {1,2,3,4} = 4, total=5 -> 1 duplicate
	require.Equal(t, int64(1), dup["id"].Duplicates)
}

func TestFinalizeUnregisteredColumnAbsent(t *testing.T) {
	acc := NewAccumulator([]string{"id"})
	dup := acc.Finalize(10, nil)
	_, ok := dup["other"]
	require.False(t, ok)
}

func TestRecordHashesPanicsOnUnregisteredColumn(t *testing.T) {
	acc := NewAccumulator([]string{"id"})
	require.Panics(t, func() {
		acc.RecordHashes("missing", []uint64{1})
	})
}
