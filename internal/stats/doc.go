// Package stats implements the running mean/variance accumulator shared by
// StdDevCheck and MeanVarianceCheck. Each column accumulates its own state
// with Welford's single-pass algorithm; Accumulator folds every batch's
// values into one lock-protected state per column. Merge combines two
// independently accumulated states with Chan's pairwise formula; the
// validation engine does not call it.
package stats
