package compiler

import (
	"github.com/dataguard/dataguard/internal/rules"
	"github.com/dataguard/dataguard/pkg/models"
)

func narrowInt64(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func compileIntegerColumn(spec models.ColumnSpec, needsTypeCheck bool) (*ExecutableColumn, error) {
	col := &ExecutableColumn{Name: spec.Name, Kind: models.TypeInteger}
	for _, decl := range spec.Rules {
		switch decl.Kind {
		case models.RuleNumericRange:
			col.Int64Rules = append(col.Int64Rules, &rules.Range[int64]{
				Name: decl.Name, Threshold: decl.Threshold, Min: narrowInt64(decl.Min), Max: narrowInt64(decl.Max),
			})
		case models.RuleMonotonicity:
			col.Int64Rules = append(col.Int64Rules, &rules.Monotonicity[int64]{
				Name: decl.Name, Threshold: decl.Threshold, Ascending: decl.Ascending,
			})
		case models.RuleStdDev:
			col.Int64StatRules = append(col.Int64StatRules, &rules.StdDevCheck{
				Name: decl.Name, Threshold: decl.Threshold, MaxStdDev: decl.MaxStdDev,
			})
		case models.RuleMeanVariance:
			col.Int64StatRules = append(col.Int64StatRules, &rules.MeanVarianceCheck{
				Name: decl.Name, Threshold: decl.Threshold, MaxVariancePercent: decl.MaxVariancePercent,
			})
		case models.RuleUnicity:
			col.UnicityCheck = &rules.UnicityCheck{Threshold: decl.Threshold}
		case models.RuleNullCheck:
			col.NullCheck = &rules.NullCheck{Threshold: decl.Threshold}
		default:
			return nil, newBuildError(spec.Name, decl.Kind.String(), "not valid for an Integer column")
		}
	}
	if needsTypeCheck {
		col.TypeCheck = &TypeCheck{ColumnName: spec.Name, Tolerance: spec.CastTolerance}
	}
	return col, nil
}

func compileFloatColumn(spec models.ColumnSpec, needsTypeCheck bool) (*ExecutableColumn, error) {
	col := &ExecutableColumn{Name: spec.Name, Kind: models.TypeFloat}
	for _, decl := range spec.Rules {
		switch decl.Kind {
		case models.RuleNumericRange:
			col.Float64Rules = append(col.Float64Rules, &rules.Range[float64]{
				Name: decl.Name, Threshold: decl.Threshold, Min: decl.Min, Max: decl.Max,
			})
		case models.RuleMonotonicity:
			col.Float64Rules = append(col.Float64Rules, &rules.Monotonicity[float64]{
				Name: decl.Name, Threshold: decl.Threshold, Ascending: decl.Ascending,
			})
		case models.RuleStdDev:
			col.Float64StatRules = append(col.Float64StatRules, &rules.StdDevCheck{
				Name: decl.Name, Threshold: decl.Threshold, MaxStdDev: decl.MaxStdDev,
			})
		case models.RuleMeanVariance:
			col.Float64StatRules = append(col.Float64StatRules, &rules.MeanVarianceCheck{
				Name: decl.Name, Threshold: decl.Threshold, MaxVariancePercent: decl.MaxVariancePercent,
			})
		case models.RuleUnicity:
			col.UnicityCheck = &rules.UnicityCheck{Threshold: decl.Threshold}
		case models.RuleNullCheck:
			col.NullCheck = &rules.NullCheck{Threshold: decl.Threshold}
		default:
			return nil, newBuildError(spec.Name, decl.Kind.String(), "not valid for a Float column")
		}
	}
	if needsTypeCheck {
		col.TypeCheck = &TypeCheck{ColumnName: spec.Name, Tolerance: spec.CastTolerance}
	}
	return col, nil
}
