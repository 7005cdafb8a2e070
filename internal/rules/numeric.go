package rules

import (
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Numeric is the element-type constraint rules are generic over: the
// compiler binds one concrete instantiation per numeric column instead of
// converting every cell to a common wide type (spec.md §9).
type Numeric interface {
	~int32 | ~int64 | ~float64
}

// NumericArray is the minimal read surface rule primitives need from an
// Arrow primitive array, implemented by *array.Int64 and *array.Float64.
type NumericArray[N Numeric] interface {
	Len() int
	IsNull(i int) bool
	Value(i int) N
}

// Range violates iff a value is < Min or > Max; bounds are inclusive and
// independently optional, narrowed into N at compile time.
type Range[N Numeric] struct {
	Name      string
	Threshold float64
	Min, Max  *N
}

func (r *Range[N]) RuleName() string      { return r.Name }
func (r *Range[N]) GetThreshold() float64 { return r.Threshold }

func (r *Range[N]) Validate(arr NumericArray[N]) int64 {
	var violations int64
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		v := arr.Value(i)
		if r.Min != nil && v < *r.Min {
			violations++
			continue
		}
		if r.Max != nil && v > *r.Max {
			violations++
		}
	}
	return violations
}

// Monotonicity counts adjacent pairs in the batch that break the requested
// order. It is defined per-batch only; cross-batch ordering is not
// enforced (spec.md §4.1, §9).
type Monotonicity[N Numeric] struct {
	Name      string
	Threshold float64
	Ascending bool
}

func (m *Monotonicity[N]) RuleName() string      { return m.Name }
func (m *Monotonicity[N]) GetThreshold() float64 { return m.Threshold }

func (m *Monotonicity[N]) Validate(arr NumericArray[N]) int64 {
	var violations int64
	var prev N
	havePrev := false
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		v := arr.Value(i)
		if havePrev {
			if m.Ascending && v < prev {
				violations++
			} else if !m.Ascending && v > prev {
				violations++
			}
		}
		prev = v
		havePrev = true
	}
	return violations
}

// NumericRule is any domain rule generic over a numeric element type.
type NumericRule[N Numeric] interface {
	RuleName() string
	GetThreshold() float64
	Validate(arr NumericArray[N]) int64
}

// StdDevCheck violates iff |v - mean| / stddev >= MaxStdDev, evaluated
// against the fully-merged global statistics (zero violations when
// stddev == 0).
type StdDevCheck struct {
	Name      string
	Threshold float64
	MaxStdDev float64
}

func (c *StdDevCheck) RuleName() string      { return c.Name }
func (c *StdDevCheck) GetThreshold() float64 { return c.Threshold }

// Violates reports whether a single value breaches the threshold given the
// finalized mean/stddev.
func (c *StdDevCheck) Violates(v, mean, stddev float64) bool {
	if stddev == 0 {
		return false
	}
	delta := v - mean
	if delta < 0 {
		delta = -delta
	}
	return delta/stddev >= c.MaxStdDev
}

// MeanVarianceCheck violates iff |v - mean| > mean * (MaxVariancePercent/100).
type MeanVarianceCheck struct {
	Name               string
	Threshold          float64
	MaxVariancePercent float64
}

func (c *MeanVarianceCheck) RuleName() string      { return c.Name }
func (c *MeanVarianceCheck) GetThreshold() float64 { return c.Threshold }

// Violates ignores stddev so StdDevCheck and MeanVarianceCheck share one
// dispatch signature in the engine (spec.md §4.1).
func (c *MeanVarianceCheck) Violates(v, mean, stddev float64) bool {
	delta := v - mean
	if delta < 0 {
		delta = -delta
	}
	return delta > mean*(c.MaxVariancePercent/100)
}

// StatRule is implemented by rules evaluated against finalized global
// statistics rather than per-batch arrays.
type StatRule interface {
	RuleName() string
	GetThreshold() float64
	Violates(v, mean, stddev float64) bool
}

// int64Array and float64Array adapt arrow-go's concrete array types to
// NumericArray so Range/Monotonicity can be instantiated without the
// engine hand-rolling adapters at every call site.
type int64Array struct{ *array.Int64 }

func (a int64Array) Value(i int) int64 { return a.Int64.Value(i) }

type float64Array struct{ *array.Float64 }

func (a float64Array) Value(i int) float64 { return a.Float64.Value(i) }

// WrapInt64 adapts an Arrow Int64 array for use with generic numeric rules.
func WrapInt64(arr *array.Int64) NumericArray[int64] { return int64Array{arr} }

// WrapFloat64 adapts an Arrow Float64 array for use with generic numeric rules.
func WrapFloat64(arr *array.Float64) NumericArray[float64] { return float64Array{arr} }

// date32Array adapts *array.Date32 (int32-backed) for use with CompareCheck,
// since relation rules may compare two Date columns (spec.md §6).
type date32Array struct{ *array.Date32 }

func (a date32Array) Value(i int) int32 { return int32(a.Date32.Value(i)) }

// WrapDate32 adapts an Arrow Date32 array for use with generic relation rules.
func WrapDate32(arr *array.Date32) NumericArray[int32] { return date32Array{arr} }
