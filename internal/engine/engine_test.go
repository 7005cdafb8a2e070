package engine

import (
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/rules"
	"github.com/dataguard/dataguard/pkg/models"
)

func stringRecord(mem memory.Allocator, field string, values []string, nulls []bool) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{{Name: field, Type: arrow.BinaryTypes.String, Nullable: true}}, nil)
	b := array.NewStringBuilder(mem)
	defer b.Release()
	for i, v := range values {
		if nulls != nil && nulls[i] {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	arr := b.NewStringArray()
	defer arr.Release()
	return array.NewRecord(schema, []arrow.Array{arr}, int64(len(values)))
}

func int64Record(mem memory.Allocator, field string, values []int64, nulls []bool) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{{Name: field, Type: arrow.PrimitiveTypes.Int64, Nullable: true}}, nil)
	b := array.NewInt64Builder(mem)
	defer b.Release()
	for i, v := range values {
		if nulls != nil && nulls[i] {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	arr := b.NewInt64Array()
	defer arr.Release()
	return array.NewRecord(schema, []arrow.Array{arr}, int64(len(values)))
}

func twoInt64ColumnRecord(mem memory.Allocator, left, right string, lv, rv []int64) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: left, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: right, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
	lb := array.NewInt64Builder(mem)
	defer lb.Release()
	for _, v := range lv {
		lb.Append(v)
	}
	larr := lb.NewInt64Array()
	defer larr.Release()

	rb := array.NewInt64Builder(mem)
	defer rb.Release()
	for _, v := range rv {
		rb.Append(v)
	}
	rarr := rb.NewInt64Array()
	defer rarr.Release()

	return array.NewRecord(schema, []arrow.Array{larr, rarr}, int64(len(lv)))
}

func findRule(t *testing.T, result models.ValidationResult, column, rule string) models.RuleResult {
	t.Helper()
	for _, c := range result.Columns {
		if c.Name != column {
			continue
		}
		for _, r := range c.Rules {
			if r.RuleName == rule {
				return r
			}
		}
	}
	t.Fatalf("rule %s/%s not found in result", column, rule)
	return models.RuleResult{}
}

func findRelationRule(t *testing.T, result models.ValidationResult, pairLabel, rule string) models.RuleResult {
	t.Helper()
	for _, rel := range result.Relations {
		if rel.PairLabel != pairLabel {
			continue
		}
		for _, r := range rel.Rules {
			if r.RuleName == rule {
				return r
			}
		}
	}
	t.Fatalf("relation rule %s/%s not found in result", pairLabel, rule)
	return models.RuleResult{}
}

func TestValidateBatchesNullCheckAndStringRule(t *testing.T) {
	mem := memory.DefaultAllocator
	col := &compiler.ExecutableColumn{
		Name:      "email",
		Kind:      models.TypeString,
		NullCheck: &rules.NullCheck{Threshold: 0},
	}
	re, err := rules.NewRegexMatch("format", 0.5, `^[^@]+@[^@]+$`, false)
	require.NoError(t, err)
	col.StringRules = []rules.StringRule{re}

	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	b1 := stringRecord(mem, "email", []string{"a@b.com", "bad", ""}, []bool{false, false, true})
	defer b1.Release()

	result, err := eng.ValidateBatches("users", []arrow.Record{b1})
	require.NoError(t, err)
	require.Equal(t, int64(3), result.TotalRows)

	nullOutcome := findRule(t, result, "email", "NullCheck")
	require.Equal(t, int64(1), nullOutcome.ErrorCount)
	require.False(t, nullOutcome.Passed, "NullCheck has zero tolerance")

	formatOutcome := findRule(t, result, "email", "format")
	require.Equal(t, int64(1), formatOutcome.ErrorCount, "\"bad\" fails the regex, the null cell is skipped")
	require.True(t, formatOutcome.Passed, "1/3 is within the 0.5 tolerance")
}

func TestValidateBatchesTypeCastFailureAccounting(t *testing.T) {
	mem := memory.DefaultAllocator
	col := &compiler.ExecutableColumn{
		Name:      "age",
		Kind:      models.TypeInteger,
		TypeCheck: &compiler.TypeCheck{ColumnName: "age", Tolerance: 0.5},
	}

	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	b1 := stringRecord(mem, "age", []string{"21", "oops", "35"}, nil)
	defer b1.Release()

	result, err := eng.ValidateBatches("users", []arrow.Record{b1})
	require.NoError(t, err)

	typeOutcome := findRule(t, result, "age", "TypeCheck")
	require.Equal(t, int64(1), typeOutcome.ErrorCount)
}

func TestValidateBatchesUnicityAcrossBatches(t *testing.T) {
	mem := memory.DefaultAllocator
	col := &compiler.ExecutableColumn{
		Name:         "id",
		Kind:         models.TypeInteger,
		UnicityCheck: &rules.UnicityCheck{Threshold: 0},
	}

	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	b1 := int64Record(mem, "id", []int64{1, 2, 3}, nil)
	defer b1.Release()
	b2 := int64Record(mem, "id", []int64{3, 4}, nil)
	defer b2.Release()

	result, err := eng.ValidateBatches("ids", []arrow.Record{b1, b2})
	require.NoError(t, err)

	unicityOutcome := findRule(t, result, "id", "Unicity")
	require.Equal(t, int64(1), unicityOutcome.ErrorCount, "3 repeats across the two batches")
}

func TestValidateBatchesRelation(t *testing.T) {
	mem := memory.DefaultAllocator
	left := &compiler.ExecutableColumn{Name: "start", Kind: models.TypeInteger}
	right := &compiler.ExecutableColumn{Name: "end", Kind: models.TypeInteger}
	rel := &compiler.ExecutableRelation{
		PairLabel:  "start<->end",
		Left:       "start",
		Right:      "end",
		Kind:       models.TypeInteger,
		Int64Rules: []*rules.CompareCheck[int64]{{PairLabel: "start<->end", Op: rules.OpLessEq}},
	}

	eng := NewEngine([]*compiler.ExecutableColumn{left, right}, []*compiler.ExecutableRelation{rel})

	batch := twoInt64ColumnRecord(mem, "start", "end", []int64{1, 5, 10}, []int64{2, 5, 9})
	defer batch.Release()

	result, err := eng.ValidateBatches("ranges", []arrow.Record{batch})
	require.NoError(t, err)

	outcome := findRelationRule(t, result, "start<->end", "<=")
	require.Equal(t, int64(1), outcome.ErrorCount, "the last row has start=10 > end=9")
}

func TestValidateBatchesRelationOverCSVCastColumns(t *testing.T) {
	mem := memory.DefaultAllocator
	left := &compiler.ExecutableColumn{
		Name:      "start",
		Kind:      models.TypeInteger,
		TypeCheck: &compiler.TypeCheck{ColumnName: "start"},
	}
	right := &compiler.ExecutableColumn{
		Name:      "end",
		Kind:      models.TypeInteger,
		TypeCheck: &compiler.TypeCheck{ColumnName: "end"},
	}
	rel := &compiler.ExecutableRelation{
		PairLabel:  "start<->end",
		Left:       "start",
		Right:      "end",
		Kind:       models.TypeInteger,
		Int64Rules: []*rules.CompareCheck[int64]{{PairLabel: "start<->end", Op: rules.OpLessEq}},
	}

	eng := NewEngine([]*compiler.ExecutableColumn{left, right}, []*compiler.ExecutableRelation{rel})

	b1 := stringRecord(mem, "start", []string{"1", "5", "10"}, nil)
	defer b1.Release()
	b2 := stringRecord(mem, "end", []string{"2", "5", "9"}, nil)
	defer b2.Release()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "start", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "end", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
	batch := array.NewRecord(schema, []arrow.Array{b1.Column(0), b2.Column(0)}, 3)
	defer batch.Release()

	result, err := eng.ValidateBatches("ranges", []arrow.Record{batch})
	require.NoError(t, err)

	outcome := findRelationRule(t, result, "start<->end", "<=")
	require.Equal(t, int64(1), outcome.ErrorCount, "neither column carries a stat rule, so both casts are released right after this batch's relation dispatch; the last row has start=10 > end=9")
}

func TestValidateBatchesStdDevSecondPass(t *testing.T) {
	mem := memory.DefaultAllocator
	col := &compiler.ExecutableColumn{
		Name:           "amount",
		Kind:           models.TypeInteger,
		Int64StatRules: []rules.StatRule{&rules.StdDevCheck{Name: "outlier", MaxStdDev: 1}},
	}

	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	batch := int64Record(mem, "amount", []int64{10, 10, 10, 10, 1000}, nil)
	defer batch.Release()

	result, err := eng.ValidateBatches("amounts", []arrow.Record{batch})
	require.NoError(t, err)

	outcome := findRule(t, result, "amount", "outlier")
	require.GreaterOrEqual(t, outcome.ErrorCount, int64(1), "the 1000 outlier should exceed one stddev from the mean")
}

// sliceSource replays a fixed set of records and can be opened repeatedly,
// mirroring how a streaming reader is re-opened for the stat-rule second pass.
type sliceSource struct {
	records []arrow.Record
	pos     int
}

func newSliceSource(records []arrow.Record) *sliceSource {
	return &sliceSource{records: records}
}

func (s *sliceSource) Next() (arrow.Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	rec.Retain()
	s.pos++
	return rec, nil
}

func TestValidateStreamBasic(t *testing.T) {
	mem := memory.DefaultAllocator
	col := &compiler.ExecutableColumn{
		Name:      "email",
		Kind:      models.TypeString,
		NullCheck: &rules.NullCheck{Threshold: 0},
	}
	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	b1 := stringRecord(mem, "email", []string{"a@b.com", ""}, []bool{false, true})
	defer b1.Release()
	b2 := stringRecord(mem, "email", []string{"c@d.com"}, nil)
	defer b2.Release()

	open := func() (BatchSource, error) {
		return newSliceSource([]arrow.Record{b1, b2}), nil
	}

	result, err := eng.ValidateStream("stream_users", open)
	require.NoError(t, err)
	require.Equal(t, int64(3), result.TotalRows)

	nullOutcome := findRule(t, result, "email", "NullCheck")
	require.Equal(t, int64(1), nullOutcome.ErrorCount)
}

func TestValidateStreamRunsStatRuleSecondPass(t *testing.T) {
	mem := memory.DefaultAllocator
	col := &compiler.ExecutableColumn{
		Name:           "amount",
		Kind:           models.TypeInteger,
		Int64StatRules: []rules.StatRule{&rules.StdDevCheck{Name: "outlier", MaxStdDev: 1}},
	}
	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	batch := int64Record(mem, "amount", []int64{10, 10, 10, 10, 1000}, nil)
	defer batch.Release()

	opens := 0
	open := func() (BatchSource, error) {
		opens++
		return newSliceSource([]arrow.Record{batch}), nil
	}

	result, err := eng.ValidateStream("stream_amounts", open)
	require.NoError(t, err)
	require.Equal(t, 2, opens, "a stat rule requires a second pass over the source")

	outcome := findRule(t, result, "amount", "outlier")
	require.GreaterOrEqual(t, outcome.ErrorCount, int64(1))
}

func TestEngineEmptyBatchesIsVacuouslyPassing(t *testing.T) {
	col := &compiler.ExecutableColumn{
		Name:      "email",
		Kind:      models.TypeString,
		NullCheck: &rules.NullCheck{Threshold: 0},
	}
	eng := NewEngine([]*compiler.ExecutableColumn{col}, nil)

	result, err := eng.ValidateBatches("empty", nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), result.TotalRows)
	require.True(t, result.Passed(), "zero rows means every threshold is vacuously satisfied")
}
