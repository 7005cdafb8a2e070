package engine

import (
	"runtime"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/observability"
	"github.com/dataguard/dataguard/internal/rules"
	"github.com/dataguard/dataguard/pkg/models"
)

// maxParallelism bounds batch fan-out to the host's available CPUs; a
// worker per core saturates arrow-go's allocator-heavy cast kernels without
// oversubscribing the scheduler.
func maxParallelism() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

func (e *Engine) validateRelation(r *run, rel *compiler.ExecutableRelation, left, right arrow.Array) {
	switch rel.Kind {
	case models.TypeInteger:
		l, lok := left.(*array.Int64)
		ri, rok := right.(*array.Int64)
		if !lok || !rok {
			return
		}
		lw, rw := rules.WrapInt64(l), rules.WrapInt64(ri)
		for _, rule := range rel.Int64Rules {
			r.results.AddRelation(rel.PairLabel, rule.RuleName(), rule.Validate(lw, rw))
		}
	case models.TypeFloat:
		l, lok := left.(*array.Float64)
		ri, rok := right.(*array.Float64)
		if !lok || !rok {
			return
		}
		lw, rw := rules.WrapFloat64(l), rules.WrapFloat64(ri)
		for _, rule := range rel.Float64Rules {
			r.results.AddRelation(rel.PairLabel, rule.RuleName(), rule.Validate(lw, rw))
		}
	case models.TypeDate:
		l, lok := left.(*array.Date32)
		ri, rok := right.(*array.Date32)
		if !lok || !rok {
			return
		}
		lw, rw := rules.WrapDate32(l), rules.WrapDate32(ri)
		for _, rule := range rel.DateRules {
			r.results.AddRelation(rel.PairLabel, rule.RuleName(), rule.Validate(lw, rw))
		}
	}
}

func (e *Engine) applyUnicity(r *run, totalRows int64) {
	for column, result := range r.unicityAcc.Finalize(totalRows, r.nullCounts) {
		r.results.Add(column, "Unicity", result.Duplicates)
	}
}

// applyStatRules re-scans the retained casted arrays (batch mode) against
// the now-final global mean/stddev per column (spec.md §4.6.1's second
// pass).
func (e *Engine) applyStatRules(r *run) {
	for _, col := range e.Columns {
		if len(col.Int64StatRules) == 0 && len(col.Float64StatRules) == 0 {
			continue
		}
		st, ok := r.statsAcc.Get(col.Name)
		if !ok {
			continue
		}
		mean, stddev := st.Mean, st.StdDev()
		for _, arr := range r.retained[col.Name] {
			e.applyStatRulesToArray(r, col, arr, mean, stddev)
		}
	}
}

// applyStatRulesToBatch re-casts a column straight from a fresh streaming
// batch and applies stat rules against the final global stats; used for the
// streaming-mode second pass, which rereads the source rather than keeping
// every batch resident in memory (spec.md §4.6).
func (e *Engine) applyStatRulesToBatch(r *run, batch arrow.Record) {
	schema := batch.Schema()
	for _, col := range e.Columns {
		if len(col.Int64StatRules) == 0 && len(col.Float64StatRules) == 0 {
			continue
		}
		idxs := schema.FieldIndices(col.Name)
		if len(idxs) == 0 {
			continue
		}
		st, ok := r.statsAcc.Get(col.Name)
		if !ok {
			continue
		}
		src := batch.Column(idxs[0])
		mean, stddev := st.Mean, st.StdDev()

		if col.TypeCheck != nil {
			strArr, ok := src.(*array.String)
			if !ok {
				continue
			}
			if len(col.Int64StatRules) > 0 {
				c, _ := rules.CastStringToInt64(e.Allocator, strArr)
				e.applyStatRulesToArray(r, col, c, mean, stddev)
				c.Release()
			} else {
				c, _ := rules.CastStringToFloat64(e.Allocator, strArr)
				e.applyStatRulesToArray(r, col, c, mean, stddev)
				c.Release()
			}
			continue
		}
		e.applyStatRulesToArray(r, col, src, mean, stddev)
	}
}

func (e *Engine) applyStatRulesToArray(r *run, col *compiler.ExecutableColumn, arr arrow.Array, mean, stddev float64) {
	switch a := arr.(type) {
	case *array.Int64:
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			v := float64(a.Value(i))
			for _, rule := range col.Int64StatRules {
				if rule.Violates(v, mean, stddev) {
					r.results.Add(col.Name, rule.RuleName(), 1)
				}
			}
		}
	case *array.Float64:
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			v := a.Value(i)
			for _, rule := range col.Float64StatRules {
				if rule.Violates(v, mean, stddev) {
					r.results.Add(col.Name, rule.RuleName(), 1)
				}
			}
		}
	}
}

func (e *Engine) finalize(tableName string, totalRows int64, r *run) models.ValidationResult {
	columnOutcomes, relationOutcomes := r.results.Finalize(totalRows, r.nonNull)

	byColumn := make(map[string][]models.RuleResult)
	var columnOrder []string
	for _, col := range e.Columns {
		if _, seen := byColumn[col.Name]; !seen {
			columnOrder = append(columnOrder, col.Name)
			byColumn[col.Name] = nil
		}
	}
	for key, o := range columnOutcomes {
		if _, seen := byColumn[key.Scope]; !seen {
			columnOrder = append(columnOrder, key.Scope)
		}
		byColumn[key.Scope] = append(byColumn[key.Scope], models.RuleResult{
			RuleName:     key.Rule,
			ErrorCount:   o.ErrorCount,
			Tolerance:    o.Tolerance,
			ErrorPercent: o.ErrorPercent,
			Passed:       o.Passed,
			Notice:       o.Notice,
		})
		if o.ErrorCount > 0 {
			observability.RuleViolationsTotal.WithLabelValues(key.Scope, key.Rule).Add(float64(o.ErrorCount))
		}
	}

	byRelation := make(map[string][]models.RuleResult)
	var relationOrder []string
	for key, o := range relationOutcomes {
		if _, seen := byRelation[key.Scope]; !seen {
			relationOrder = append(relationOrder, key.Scope)
		}
		byRelation[key.Scope] = append(byRelation[key.Scope], models.RuleResult{
			RuleName:     key.Rule,
			ErrorCount:   o.ErrorCount,
			Tolerance:    o.Tolerance,
			ErrorPercent: o.ErrorPercent,
			Passed:       o.Passed,
		})
	}

	result := models.ValidationResult{TableName: tableName, TotalRows: totalRows}
	for _, name := range columnOrder {
		if rs := byColumn[name]; len(rs) > 0 {
			result.Columns = append(result.Columns, models.ColumnResult{Name: name, Rules: rs})
		}
	}
	for _, label := range relationOrder {
		result.Relations = append(result.Relations, models.RelationResult{PairLabel: label, Rules: byRelation[label]})
	}
	return result
}
