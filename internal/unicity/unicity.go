// Package unicity accumulates cross-batch hash sets for columns carrying a
// Unicity rule, then derives a duplicate count once every batch has been
// seen (spec.md §4.2).
package unicity

import "sync"

// Accumulator tracks one hash set per column registered at construction
// time; RecordHashes is safe to call concurrently for different columns
// (and for the same column from different batches).
type Accumulator struct {
	sets map[string]*columnSet
}

type columnSet struct {
	mu   sync.Mutex
	seen map[uint64]struct{}
}

// NewAccumulator registers one empty set per column name in columns.
// RecordHashes panics for any column not registered here: that indicates a
// compiler/engine wiring bug, not a data error.
func NewAccumulator(columns []string) *Accumulator {
	sets := make(map[string]*columnSet, len(columns))
	for _, c := range columns {
		sets[c] = &columnSet{seen: make(map[uint64]struct{})}
	}
	return &Accumulator{sets: sets}
}

// RecordHashes merges one batch's non-null cell hashes for column into its
// global set.
func (a *Accumulator) RecordHashes(column string, hashes []uint64) {
	cs, ok := a.sets[column]
	if !ok {
		panic("unicity: column " + column + " was not registered at construction")
	}
	cs.mu.Lock()
	for _, h := range hashes {
		cs.seen[h] = struct{}{}
	}
	cs.mu.Unlock()
}

// Result is the finalized duplicate count for one column, reported both
// against total_rows (the tolerance denominator spec.md §4.2/§4.3 actually
// uses) and against the non-null count (exposed for callers who want the
// view that doesn't get diluted by a column's null rate, per the open
// question in spec.md §9).
type Result struct {
	Duplicates           int64
	DuplicateRateNonNull float64
}

// Finalize returns, per registered column, the duplicate count:
// total_rows − |global_set| − total_nulls_in_column (spec.md §4.2, §9).
func (a *Accumulator) Finalize(totalRows int64, nulls map[string]int64) map[string]Result {
	out := make(map[string]Result, len(a.sets))
	for name, cs := range a.sets {
		cs.mu.Lock()
		distinct := int64(len(cs.seen))
		cs.mu.Unlock()
		n := nulls[name]
		dup := totalRows - distinct - n
		if dup < 0 {
			dup = 0
		}
		nonNull := totalRows - n
		rate := 0.0
		if nonNull > 0 {
			rate = float64(dup) / float64(nonNull)
		}
		out[name] = Result{Duplicates: dup, DuplicateRateNonNull: rate}
	}
	return out
}
