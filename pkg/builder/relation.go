package builder

import "github.com/dataguard/dataguard/pkg/models"

// RelationBuilder accumulates comparison rules between two aligned columns.
type RelationBuilder struct {
	spec models.RelationSpec
}

// Relation starts a new cross-column comparison between left and right.
func Relation(left, right string) *RelationBuilder {
	return &RelationBuilder{spec: models.RelationSpec{Left: left, Right: right}}
}

// Build returns the accumulated relation spec.
func (b *RelationBuilder) Build() models.RelationSpec { return b.spec }

// Compare adds a comparison rule: left <op> right, with its own tolerance.
func (b *RelationBuilder) Compare(op models.Operator, threshold float64) *RelationBuilder {
	b.spec.Rules = append(b.spec.Rules, models.ComparisonRule{Op: op, Threshold: threshold})
	return b
}

// LessThan is shorthand for Compare(OpLess, threshold).
func (b *RelationBuilder) LessThan(threshold float64) *RelationBuilder {
	return b.Compare(models.OpLess, threshold)
}

// LessOrEqual is shorthand for Compare(OpLessEqual, threshold).
func (b *RelationBuilder) LessOrEqual(threshold float64) *RelationBuilder {
	return b.Compare(models.OpLessEqual, threshold)
}

// Equal is shorthand for Compare(OpEqual, threshold).
func (b *RelationBuilder) Equal(threshold float64) *RelationBuilder {
	return b.Compare(models.OpEqual, threshold)
}

// GreaterOrEqual is shorthand for Compare(OpGreaterEqual, threshold).
func (b *RelationBuilder) GreaterOrEqual(threshold float64) *RelationBuilder {
	return b.Compare(models.OpGreaterEqual, threshold)
}

// GreaterThan is shorthand for Compare(OpGreater, threshold).
func (b *RelationBuilder) GreaterThan(threshold float64) *RelationBuilder {
	return b.Compare(models.OpGreater, threshold)
}
