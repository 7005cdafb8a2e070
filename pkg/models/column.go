// Package models defines the data-only types shared between the rule
// builder façade, the compiler, and the validation engine.
package models

// LogicalType is the declared type of a column before compilation narrows
// it to a concrete Arrow representation.
type LogicalType int

const (
	TypeString LogicalType = iota
	TypeInteger
	TypeFloat
	TypeDate
)

func (t LogicalType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// ColumnSpec is the compiler's input: a user-declared column with its
// ordered rule list. DateFormat is required when Type == TypeDate (a
// caller-supplied strftime-style layout such as "%Y-%m-%d").
type ColumnSpec struct {
	Name           string
	Type           LogicalType
	CastTolerance  float64
	DateFormat     string
	Rules          []RuleDeclaration
}

// RelationSpec declares a cross-column comparison between two aligned
// columns.
type RelationSpec struct {
	Left, Right string
	Rules       []ComparisonRule
}

// Operator is a relation comparison operator.
type Operator int

const (
	OpLess Operator = iota
	OpLessEqual
	OpEqual
	OpGreaterEqual
	OpGreater
)

// ParseOperator accepts both symbolic and keyword spellings, per spec.md §6.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "<", "lt":
		return OpLess, true
	case "<=", "lte":
		return OpLessEqual, true
	case "=", "eq":
		return OpEqual, true
	case ">=", "gte":
		return OpGreaterEqual, true
	case ">", "gt":
		return OpGreater, true
	default:
		return 0, false
	}
}

func (o Operator) String() string {
	switch o {
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpEqual:
		return "="
	case OpGreaterEqual:
		return ">="
	case OpGreater:
		return ">"
	default:
		return "?"
	}
}

// ComparisonRule is one relation check with its own tolerance.
type ComparisonRule struct {
	Op        Operator
	Threshold float64
}
