// Package rules implements the pure, stateless per-array validators
// ("rule primitives") that the compiler binds into executable columns and
// the engine runs over each record batch.
//
// Null handling is fixed per rule family: domain rules (length, regex,
// range, monotonicity, date boundary, weekday) skip null cells entirely;
// NullCheck is the only rule that counts them.
package rules
