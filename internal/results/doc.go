// Package results implements the concurrent (column, rule) → error-count
// map that the engine increments while validating batches in parallel, and
// the finalization step that turns raw counts into pass/fail verdicts
// (spec.md §4.3).
package results
