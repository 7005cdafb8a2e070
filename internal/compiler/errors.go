package compiler

import "fmt"

// BuildError names the column or relation and rule that failed to compile,
// so the caller can report exactly which declaration was malformed
// (spec.md §4.4, §7).
type BuildError struct {
	Scope string // column name or "left<->right" relation label
	Rule  string
	Msg   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("compile %s: rule %s: %s", e.Scope, e.Rule, e.Msg)
}

func newBuildError(scope, rule, msg string) error {
	return &BuildError{Scope: scope, Rule: rule, Msg: msg}
}
