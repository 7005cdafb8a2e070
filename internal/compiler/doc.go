// Package compiler turns declarative pkg/models ColumnSpec/RelationSpec
// values into ExecutableColumn/ExecutableRelation structures the engine can
// run directly: rule declarations are dispatched by logical type into
// typed internal/rules values, invalid combinations fail as structured
// build errors, and numeric bounds are narrowed into the column's concrete
// element type (spec.md §4.4).
package compiler
