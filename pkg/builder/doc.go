// Package builder provides fluent constructors for models.ColumnSpec and
// models.RelationSpec, so callers can declare a table's rules in code
// instead of hand-assembling the tagged-variant structs directly.
//
// Every rule method takes the column's own per-rule tolerance as a
// threshold fraction, mirroring the declarative surface of spec.md §4.1:
// each rule fails independently once its own error fraction exceeds its
// threshold. Nothing here validates a rule (a bad regex, an impossible
// date) until the column reaches internal/compiler, so a mistake surfaces
// as a build error when a table is constructed, not a run error partway
// through validation.
package builder
