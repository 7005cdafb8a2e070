package main

import "fmt"

// unknownDatatypeError is returned when a column's configured datatype
// isn't one cmd/dataguard knows how to build a column from.
type unknownDatatypeError struct {
	Datatype string
	Column   string
}

func (e *unknownDatatypeError) Error() string {
	return fmt.Sprintf("column %q: unknown datatype %q (want string, integer, float, or date)", e.Column, e.Datatype)
}

// unknownRuleError is returned when a rule's name doesn't match any rule
// cmd/dataguard knows how to build for the column's datatype.
type unknownRuleError struct {
	Rule       string
	ColumnType string
	Column     string
}

func (e *unknownRuleError) Error() string {
	return fmt.Sprintf("column %q (%s): unknown rule %q", e.Column, e.ColumnType, e.Rule)
}

// missingRuleFieldError is returned when a rule is missing a field its
// construction requires (e.g. "between" without min/max).
type missingRuleFieldError struct {
	Rule   string
	Column string
	Field  string
}

func (e *missingRuleFieldError) Error() string {
	return fmt.Sprintf("column %q: rule %q missing required field %q", e.Column, e.Rule, e.Field)
}

// unknownOperatorError is returned when a relation's op field doesn't
// match a recognized comparison operator.
type unknownOperatorError struct {
	Op   string
	Pair string
}

func (e *unknownOperatorError) Error() string {
	return fmt.Sprintf("relation %q: unknown operator %q", e.Pair, e.Op)
}

// tooManyTablesError is returned when --watch is requested against a
// config declaring more than one table.
type tooManyTablesError struct {
	NTables int
}

func (e *tooManyTablesError) Error() string {
	return fmt.Sprintf("watch mode only supports a single table, config declares %d", e.NTables)
}
