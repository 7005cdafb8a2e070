// Package tables wires a column/relation schema to a file on disk: it
// compiles the schema once via internal/compiler, picks a reading strategy
// via internal/readers, and runs internal/engine against the result.
package tables
