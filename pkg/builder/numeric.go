package builder

import (
	"math"

	"github.com/dataguard/dataguard/pkg/models"
)

// float64Epsilon is the default lower bound Positive() uses for float
// columns: small enough that legitimate near-zero measurements pass, but
// 0.0 itself still fails.
const float64Epsilon = 1e-9

// smallestPositiveFloat backs StrictlyPositive: any float64 greater than
// zero, however small, passes.
const smallestPositiveFloat = math.SmallestNonzeroFloat64

// IntBuilder accumulates rules for an integer column.
type IntBuilder struct {
	spec models.ColumnSpec
}

// Int starts a new integer column declaration under name.
func Int(name string) *IntBuilder {
	return &IntBuilder{spec: models.ColumnSpec{Name: name, Type: models.TypeInteger}}
}

// Build returns the accumulated column spec.
func (b *IntBuilder) Build() models.ColumnSpec { return b.spec }

func (b *IntBuilder) rule(d models.RuleDeclaration) *IntBuilder {
	b.spec.Rules = append(b.spec.Rules, d)
	return b
}

// NotNull rejects null cells beyond threshold.
func (b *IntBuilder) NotNull(threshold float64) *IntBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNullCheck, Name: "NullCheck", Threshold: threshold})
}

// Unique requires cells to be distinct across the whole table.
func (b *IntBuilder) Unique(threshold float64) *IntBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleUnicity, Name: "Unicity", Threshold: threshold})
}

// Between requires min <= value <= max.
func (b *IntBuilder) Between(min, max int64, threshold float64) *IntBuilder {
	mn, mx := float64(min), float64(max)
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "Between", Threshold: threshold, Min: &mn, Max: &mx})
}

// Min requires value >= min.
func (b *IntBuilder) Min(min int64, threshold float64) *IntBuilder {
	mn := float64(min)
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "Min", Threshold: threshold, Min: &mn})
}

// Max requires value <= max.
func (b *IntBuilder) Max(max int64, threshold float64) *IntBuilder {
	mx := float64(max)
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "Max", Threshold: threshold, Max: &mx})
}

// Positive requires value >= 1. Integers have no values strictly between 0
// and 1, so this is already the strict form.
func (b *IntBuilder) Positive(threshold float64) *IntBuilder {
	mn := 1.0
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsPositive", Threshold: threshold, Min: &mn})
}

// Negative requires value <= -1.
func (b *IntBuilder) Negative(threshold float64) *IntBuilder {
	mx := -1.0
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsNegative", Threshold: threshold, Max: &mx})
}

// NonNegative requires value >= 0.
func (b *IntBuilder) NonNegative(threshold float64) *IntBuilder {
	mn := 0.0
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsNonNegative", Threshold: threshold, Min: &mn})
}

// NonPositive requires value <= 0.
func (b *IntBuilder) NonPositive(threshold float64) *IntBuilder {
	mx := 0.0
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsNonPositive", Threshold: threshold, Max: &mx})
}

// MonotonicIncreasing requires each row's value >= the previous row's,
// within the batch it is evaluated in (cross-batch order is not enforced).
func (b *IntBuilder) MonotonicIncreasing(threshold float64) *IntBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleMonotonicity, Name: "MonotonicIncreasing", Threshold: threshold, Ascending: true})
}

// MonotonicDecreasing requires each row's value <= the previous row's,
// within the batch it is evaluated in.
func (b *IntBuilder) MonotonicDecreasing(threshold float64) *IntBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleMonotonicity, Name: "MonotonicDecreasing", Threshold: threshold, Ascending: false})
}

// MaxStdDev requires |v-mean|/stddev < max, evaluated against the column's
// finalized global statistics.
func (b *IntBuilder) MaxStdDev(max, threshold float64) *IntBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleStdDev, Name: "MaxStdDev", Threshold: threshold, MaxStdDev: max})
}

// MaxVariancePercent requires |v-mean| <= mean*(maxPercent/100).
func (b *IntBuilder) MaxVariancePercent(maxPercent, threshold float64) *IntBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleMeanVariance, Name: "MaxVariancePercent", Threshold: threshold, MaxVariancePercent: maxPercent})
}

// FloatBuilder accumulates rules for a floating-point column.
type FloatBuilder struct {
	spec models.ColumnSpec
}

// Float starts a new float column declaration under name.
func Float(name string) *FloatBuilder {
	return &FloatBuilder{spec: models.ColumnSpec{Name: name, Type: models.TypeFloat}}
}

// Build returns the accumulated column spec.
func (b *FloatBuilder) Build() models.ColumnSpec { return b.spec }

func (b *FloatBuilder) rule(d models.RuleDeclaration) *FloatBuilder {
	b.spec.Rules = append(b.spec.Rules, d)
	return b
}

// NotNull rejects null cells beyond threshold.
func (b *FloatBuilder) NotNull(threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNullCheck, Name: "NullCheck", Threshold: threshold})
}

// Unique requires cells to be distinct across the whole table.
func (b *FloatBuilder) Unique(threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleUnicity, Name: "Unicity", Threshold: threshold})
}

// Between requires min <= value <= max.
func (b *FloatBuilder) Between(min, max, threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "Between", Threshold: threshold, Min: &min, Max: &max})
}

// Min requires value >= min.
func (b *FloatBuilder) Min(min, threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "Min", Threshold: threshold, Min: &min})
}

// Max requires value <= max.
func (b *FloatBuilder) Max(max, threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "Max", Threshold: threshold, Max: &max})
}

// Positive requires value >= float64Epsilon: 0.0 fails, and so does any
// positive value below float64Epsilon. Use StrictlyPositive for the
// "any value greater than zero, however small" reading.
func (b *FloatBuilder) Positive(threshold float64) *FloatBuilder {
	mn := float64Epsilon
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsPositive", Threshold: threshold, Min: &mn})
}

// StrictlyPositive requires value > 0.0 exactly, down to the smallest
// representable positive float64.
func (b *FloatBuilder) StrictlyPositive(threshold float64) *FloatBuilder {
	mn := smallestPositiveFloat
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsStrictlyPositive", Threshold: threshold, Min: &mn})
}

// Negative requires value <= -float64Epsilon.
func (b *FloatBuilder) Negative(threshold float64) *FloatBuilder {
	mx := -float64Epsilon
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsNegative", Threshold: threshold, Max: &mx})
}

// NonNegative requires value >= 0.
func (b *FloatBuilder) NonNegative(threshold float64) *FloatBuilder {
	mn := 0.0
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsNonNegative", Threshold: threshold, Min: &mn})
}

// NonPositive requires value <= 0.
func (b *FloatBuilder) NonPositive(threshold float64) *FloatBuilder {
	mx := 0.0
	return b.rule(models.RuleDeclaration{Kind: models.RuleNumericRange, Name: "IsNonPositive", Threshold: threshold, Max: &mx})
}

// MonotonicIncreasing requires each row's value >= the previous row's,
// within the batch it is evaluated in.
func (b *FloatBuilder) MonotonicIncreasing(threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleMonotonicity, Name: "MonotonicIncreasing", Threshold: threshold, Ascending: true})
}

// MonotonicDecreasing requires each row's value <= the previous row's,
// within the batch it is evaluated in.
func (b *FloatBuilder) MonotonicDecreasing(threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleMonotonicity, Name: "MonotonicDecreasing", Threshold: threshold, Ascending: false})
}

// MaxStdDev requires |v-mean|/stddev < max, evaluated against the column's
// finalized global statistics.
func (b *FloatBuilder) MaxStdDev(max, threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleStdDev, Name: "MaxStdDev", Threshold: threshold, MaxStdDev: max})
}

// MaxVariancePercent requires |v-mean| <= mean*(maxPercent/100).
func (b *FloatBuilder) MaxVariancePercent(maxPercent, threshold float64) *FloatBuilder {
	return b.rule(models.RuleDeclaration{Kind: models.RuleMeanVariance, Name: "MaxVariancePercent", Threshold: threshold, MaxVariancePercent: maxPercent})
}
