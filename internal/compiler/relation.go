package compiler

import (
	"fmt"

	"github.com/dataguard/dataguard/internal/rules"
	"github.com/dataguard/dataguard/pkg/models"
)

// ExecutableRelation is a compiled cross-column comparison: both columns
// must share the same logical type, and CompareRules is instantiated for
// that type's element representation (Int64, Float64, or Date32-as-int32).
type ExecutableRelation struct {
	PairLabel string
	Left      string
	Right     string
	Kind      models.LogicalType

	Int64Rules   []*rules.CompareCheck[int64]
	Float64Rules []*rules.CompareCheck[float64]
	DateRules    []*rules.CompareCheck[int32]
}

func pairLabel(left, right string) string { return left + "<->" + right }

// BuildColumnTypeMap extracts each column's logical type, for relation
// compilation to resolve both sides' concrete element type.
func BuildColumnTypeMap(specs []models.ColumnSpec) map[string]models.LogicalType {
	out := make(map[string]models.LogicalType, len(specs))
	for _, s := range specs {
		out[s.Name] = s.Type
	}
	return out
}

func translateOp(op models.Operator) rules.Operator {
	switch op {
	case models.OpLess:
		return rules.OpLess
	case models.OpLessEqual:
		return rules.OpLessEq
	case models.OpEqual:
		return rules.OpEqual
	case models.OpGreaterEqual:
		return rules.OpGreaterEq
	default:
		return rules.OpGreater
	}
}

// CompileRelation resolves both columns' logical types from columnTypes and
// emits a typed ExecutableRelation; the two columns must share a type, and
// only Integer, Float, and Date relations are supported (spec.md §4.1,
// §4.4).
func CompileRelation(spec models.RelationSpec, columnTypes map[string]models.LogicalType) (*ExecutableRelation, error) {
	label := pairLabel(spec.Left, spec.Right)
	leftType, ok := columnTypes[spec.Left]
	if !ok {
		return nil, newBuildError(label, "relation", fmt.Sprintf("column %q not found", spec.Left))
	}
	rightType, ok := columnTypes[spec.Right]
	if !ok {
		return nil, newBuildError(label, "relation", fmt.Sprintf("column %q not found", spec.Right))
	}
	if leftType != rightType {
		return nil, newBuildError(label, "relation", fmt.Sprintf("cannot compare %s and %s", leftType, rightType))
	}

	rel := &ExecutableRelation{PairLabel: label, Left: spec.Left, Right: spec.Right, Kind: leftType}
	for _, cmp := range spec.Rules {
		op := translateOp(cmp.Op)
		switch leftType {
		case models.TypeInteger:
			rel.Int64Rules = append(rel.Int64Rules, &rules.CompareCheck[int64]{PairLabel: label, Threshold: cmp.Threshold, Op: op})
		case models.TypeFloat:
			rel.Float64Rules = append(rel.Float64Rules, &rules.CompareCheck[float64]{PairLabel: label, Threshold: cmp.Threshold, Op: op})
		case models.TypeDate:
			rel.DateRules = append(rel.DateRules, &rules.CompareCheck[int32]{PairLabel: label, Threshold: cmp.Threshold, Op: op})
		default:
			return nil, newBuildError(label, "relation", fmt.Sprintf("relations are not supported for %s columns", leftType))
		}
	}
	return rel, nil
}
