package results

import "sync/atomic"

// Key identifies a single rule result slot, scoped to either a column name
// or a relation pair label.
type Key struct {
	Scope string // column name or relation pair label
	Rule  string
}

type entry struct {
	count     atomic.Int64
	tolerance float64
}

// Accumulator holds one atomic counter per (scope, rule) key, registered up
// front before validation starts so the engine's hot path never takes a lock to
// increment a count (spec.md §4.3, §7).
type Accumulator struct {
	columns   map[Key]*entry
	relations map[Key]*entry
}

// NewAccumulator returns an empty Accumulator; call Register/RegisterRelation
// for every compiled rule before validation starts.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		columns:   make(map[Key]*entry),
		relations: make(map[Key]*entry),
	}
}

// Register reserves a slot for a column-scoped rule.
func (a *Accumulator) Register(column, rule string, tolerance float64) {
	a.columns[Key{Scope: column, Rule: rule}] = &entry{tolerance: tolerance}
}

// RegisterRelation reserves a slot for a relation-scoped rule.
func (a *Accumulator) RegisterRelation(pairLabel, rule string, tolerance float64) {
	a.relations[Key{Scope: pairLabel, Rule: rule}] = &entry{tolerance: tolerance}
}

// Add increments a column rule's error count by n. Panics if the key was
// never registered, which indicates a compiler/engine wiring bug.
func (a *Accumulator) Add(column, rule string, n int64) {
	e, ok := a.columns[Key{Scope: column, Rule: rule}]
	if !ok {
		panic("results: column rule " + column + "/" + rule + " was not registered")
	}
	e.count.Add(n)
}

// AddRelation increments a relation rule's error count by n.
func (a *Accumulator) AddRelation(pairLabel, rule string, n int64) {
	e, ok := a.relations[Key{Scope: pairLabel, Rule: rule}]
	if !ok {
		panic("results: relation rule " + pairLabel + "/" + rule + " was not registered")
	}
	e.count.Add(n)
}

// Outcome is the finalized state of one rule slot.
type Outcome struct {
	ErrorCount   int64
	Tolerance    float64
	ErrorPercent float64
	Passed       bool
	Notice       string
}

// finalizeOne applies the pass/fail rule: a rule passes iff
// error_count / total_rows ≤ tolerance, vacuously true when total_rows is
// zero (spec.md §4.1 "Every executable rule..."). ErrorPercent is reported
// for humans as a 0-100 percentage, computed from the same fraction.
func finalizeOne(count int64, tolerance float64, totalRows int64) Outcome {
	if totalRows == 0 {
		return Outcome{ErrorCount: count, Tolerance: tolerance, ErrorPercent: 0, Passed: true}
	}
	fraction := float64(count) / float64(totalRows)
	return Outcome{
		ErrorCount:   count,
		Tolerance:    tolerance,
		ErrorPercent: fraction * 100,
		Passed:       fraction <= tolerance,
	}
}

// Finalize computes per-rule outcomes for every registered column and
// relation slot. nonNullCounts maps column name to the number of non-null
// cells attempted for type-cast (used only for the total-cast-failure
// notice); it may be nil when no column in the table has a TypeCheck.
func (a *Accumulator) Finalize(totalRows int64, nonNullCounts map[string]int64) (columns, relations map[Key]Outcome) {
	columns = make(map[Key]Outcome, len(a.columns))
	for k, e := range a.columns {
		count := e.count.Load()
		o := finalizeOne(count, e.tolerance, totalRows)
		if nonNull, ok := nonNullCounts[k.Scope]; ok && nonNull > 0 && count == nonNull {
			o.Notice = "total type-cast failure — downstream rule passes are vacuous"
		}
		columns[k] = o
	}
	relations = make(map[Key]Outcome, len(a.relations))
	for k, e := range a.relations {
		relations[k] = finalizeOne(e.count.Load(), e.tolerance, totalRows)
	}
	return columns, relations
}
