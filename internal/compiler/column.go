package compiler

import (
	"github.com/dataguard/dataguard/internal/rules"
	"github.com/dataguard/dataguard/pkg/models"
)

// TypeCheck is attached to a column when needsTypeCheck is true (CSV
// tables): it records the cast tolerance and, for Date columns, the Go
// reference layout translated from the caller-supplied strftime-style
// format, which the cast uses to parse strings into Arrow values
// (spec.md §4.4).
type TypeCheck struct {
	ColumnName string
	Tolerance  float64
	DateFormat string
}

// ExecutableColumn is the compiled, typed form of one column's rules,
// ready for the engine. Exactly one of the StringRules/Int64.../Float64...
// /DateRules groups is populated, selected by Kind.
type ExecutableColumn struct {
	Name string
	Kind models.LogicalType

	StringRules []rules.StringRule

	Int64Rules     []rules.NumericRule[int64]
	Int64StatRules []rules.StatRule

	Float64Rules     []rules.NumericRule[float64]
	Float64StatRules []rules.StatRule

	DateRules []rules.DateRule

	TypeCheck    *TypeCheck
	UnicityCheck *rules.UnicityCheck
	NullCheck    *rules.NullCheck
}

// HasUnicity reports whether this column needs global hash-set tracking.
func (c *ExecutableColumn) HasUnicity() bool { return c.UnicityCheck != nil }

// CompileColumn dispatches spec's rule declarations by the column's
// logical type, rejecting any rule that does not belong to that type, and
// attaches a TypeCheck when needsTypeCheck is true.
func CompileColumn(spec models.ColumnSpec, needsTypeCheck bool) (*ExecutableColumn, error) {
	switch spec.Type {
	case models.TypeString:
		return compileStringColumn(spec, needsTypeCheck)
	case models.TypeInteger:
		return compileIntegerColumn(spec, needsTypeCheck)
	case models.TypeFloat:
		return compileFloatColumn(spec, needsTypeCheck)
	case models.TypeDate:
		return compileDateColumn(spec, needsTypeCheck)
	default:
		return nil, newBuildError(spec.Name, "column", "unknown logical type")
	}
}

func compileStringColumn(spec models.ColumnSpec, needsTypeCheck bool) (*ExecutableColumn, error) {
	col := &ExecutableColumn{Name: spec.Name, Kind: models.TypeString}
	for _, decl := range spec.Rules {
		switch decl.Kind {
		case models.RuleStringLength:
			col.StringRules = append(col.StringRules, &rules.StringLengthCheck{
				Name: decl.Name, Threshold: decl.Threshold, Min: decl.MinLen, Max: decl.MaxLen,
			})
		case models.RuleStringRegex:
			re, err := rules.NewRegexMatch(decl.Name, decl.Threshold, decl.Pattern, decl.CaseInsensitive)
			if err != nil {
				return nil, newBuildError(spec.Name, decl.Name, err.Error())
			}
			col.StringRules = append(col.StringRules, re)
		case models.RuleStringMembers:
			col.StringRules = append(col.StringRules, rules.NewMembershipCheck(decl.Name, decl.Threshold, decl.Members))
		case models.RuleUnicity:
			col.UnicityCheck = &rules.UnicityCheck{Threshold: decl.Threshold}
		case models.RuleNullCheck:
			col.NullCheck = &rules.NullCheck{Threshold: decl.Threshold}
		default:
			return nil, newBuildError(spec.Name, decl.Kind.String(), "not valid for a String column")
		}
	}
	if needsTypeCheck {
		col.TypeCheck = &TypeCheck{ColumnName: spec.Name, Tolerance: spec.CastTolerance}
	}
	return col, nil
}

func compileDateColumn(spec models.ColumnSpec, needsTypeCheck bool) (*ExecutableColumn, error) {
	col := &ExecutableColumn{Name: spec.Name, Kind: models.TypeDate}
	for _, decl := range spec.Rules {
		switch decl.Kind {
		case models.RuleDateBoundary:
			check, err := rules.NewDateBoundaryCheck(decl.Name, decl.Threshold, decl.After, decl.Year, decl.Month, decl.Day)
			if err != nil {
				return nil, newBuildError(spec.Name, decl.Name, err.Error())
			}
			col.DateRules = append(col.DateRules, check)
		case models.RuleWeekDay:
			col.DateRules = append(col.DateRules, &rules.WeekDayCheck{Name: decl.Name, Threshold: decl.Threshold, IsWeek: decl.IsWeek})
		case models.RuleUnicity:
			col.UnicityCheck = &rules.UnicityCheck{Threshold: decl.Threshold}
		case models.RuleNullCheck:
			col.NullCheck = &rules.NullCheck{Threshold: decl.Threshold}
		default:
			return nil, newBuildError(spec.Name, decl.Kind.String(), "not valid for a Date column")
		}
	}
	if needsTypeCheck {
		if spec.DateFormat == "" {
			return nil, newBuildError(spec.Name, "TypeCheck", "date columns require a date format")
		}
		col.TypeCheck = &TypeCheck{ColumnName: spec.Name, Tolerance: spec.CastTolerance, DateFormat: strftimeToGoLayout(spec.DateFormat)}
	}
	return col, nil
}
