package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dataguard/dataguard/internal/config"
	"github.com/dataguard/dataguard/internal/readers"
	"github.com/dataguard/dataguard/internal/tables"
	"github.com/dataguard/dataguard/pkg/builder"
	"github.com/dataguard/dataguard/pkg/models"
)

func readerConfigFromFile(rc config.ReaderConfig) readers.Config {
	return readers.NewBuilder().
		MinChunkSize(rc.MinChunkSize).
		MaxChunkSize(rc.MaxChunkSize).
		ChunksPerThread(rc.ChunksPerThread).
		BatchSize(rc.BatchSize).
		Streaming(rc.Streaming).
		StreamingThreshold(rc.StreamingThreshold).
		Build()
}

func applyStringRule(b *builder.StringBuilder, rule config.RuleConfig, column string) error {
	switch rule.Name {
	case "is_unique":
		b.Unique(rule.Threshold)
	case "is_not_null":
		b.NotNull(rule.Threshold)
	case "with_length_between":
		if rule.MinLength == nil || rule.MaxLength == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "min_length/max_length"}
		}
		b.LengthBetween(*rule.MinLength, *rule.MaxLength, rule.Threshold)
	case "with_min_length":
		if rule.MinLength == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "min_length"}
		}
		b.MinLength(*rule.MinLength, rule.Threshold)
	case "with_max_length":
		if rule.MaxLength == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "max_length"}
		}
		b.MaxLength(*rule.MaxLength, rule.Threshold)
	case "is_exact_length":
		if rule.Length == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "length"}
		}
		b.ExactLength(*rule.Length, rule.Threshold)
	case "is_in":
		if rule.Members == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "members"}
		}
		b.In(rule.Members, rule.Threshold)
	case "with_regex":
		if rule.Pattern == "" {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "pattern"}
		}
		b.Regex(rule.Pattern, strings.Contains(rule.Flags, "i"), rule.Threshold)
	case "is_numeric":
		b.Numeric(rule.Threshold)
	case "is_alpha":
		b.Alpha(rule.Threshold)
	case "is_alphanumeric":
		b.AlphaNumeric(rule.Threshold)
	case "is_lowercase":
		b.Lowercase(rule.Threshold)
	case "is_uppercase":
		b.Uppercase(rule.Threshold)
	case "is_url":
		b.URL(rule.Threshold)
	case "is_email":
		b.Email(rule.Threshold)
	case "is_uuid":
		b.UUID(rule.Threshold)
	default:
		return &unknownRuleError{Rule: rule.Name, ColumnType: "string", Column: column}
	}
	return nil
}

func applyIntRule(b *builder.IntBuilder, rule config.RuleConfig, column string) error {
	switch rule.Name {
	case "is_unique":
		b.Unique(rule.Threshold)
	case "is_not_null":
		b.NotNull(rule.Threshold)
	case "between":
		if rule.Min == nil || rule.Max == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "min/max"}
		}
		b.Between(int64(*rule.Min), int64(*rule.Max), rule.Threshold)
	case "min":
		if rule.Min == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "min"}
		}
		b.Min(int64(*rule.Min), rule.Threshold)
	case "max":
		if rule.Max == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "max"}
		}
		b.Max(int64(*rule.Max), rule.Threshold)
	case "is_positive":
		b.Positive(rule.Threshold)
	case "is_negative":
		b.Negative(rule.Threshold)
	case "is_non_positive":
		b.NonPositive(rule.Threshold)
	case "is_non_negative":
		b.NonNegative(rule.Threshold)
	case "is_monotonically_increasing":
		b.MonotonicIncreasing(rule.Threshold)
	case "is_monotonically_decreasing":
		b.MonotonicDecreasing(rule.Threshold)
	case "max_std_dev":
		b.MaxStdDev(rule.MaxStdDev, rule.Threshold)
	case "max_variance_percent":
		b.MaxVariancePercent(rule.MaxVariancePercent, rule.Threshold)
	default:
		return &unknownRuleError{Rule: rule.Name, ColumnType: "integer", Column: column}
	}
	return nil
}

func applyFloatRule(b *builder.FloatBuilder, rule config.RuleConfig, column string) error {
	switch rule.Name {
	case "is_unique":
		b.Unique(rule.Threshold)
	case "is_not_null":
		b.NotNull(rule.Threshold)
	case "between":
		if rule.Min == nil || rule.Max == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "min/max"}
		}
		b.Between(*rule.Min, *rule.Max, rule.Threshold)
	case "min":
		if rule.Min == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "min"}
		}
		b.Min(*rule.Min, rule.Threshold)
	case "max":
		if rule.Max == nil {
			return &missingRuleFieldError{Rule: rule.Name, Column: column, Field: "max"}
		}
		b.Max(*rule.Max, rule.Threshold)
	case "is_positive":
		b.Positive(rule.Threshold)
	case "is_strictly_positive":
		b.StrictlyPositive(rule.Threshold)
	case "is_negative":
		b.Negative(rule.Threshold)
	case "is_non_positive":
		b.NonPositive(rule.Threshold)
	case "is_non_negative":
		b.NonNegative(rule.Threshold)
	case "is_monotonically_increasing":
		b.MonotonicIncreasing(rule.Threshold)
	case "is_monotonically_decreasing":
		b.MonotonicDecreasing(rule.Threshold)
	case "max_std_dev":
		b.MaxStdDev(rule.MaxStdDev, rule.Threshold)
	case "max_variance_percent":
		b.MaxVariancePercent(rule.MaxVariancePercent, rule.Threshold)
	default:
		return &unknownRuleError{Rule: rule.Name, ColumnType: "float", Column: column}
	}
	return nil
}

func applyDateRule(b *builder.DateBuilder, rule config.RuleConfig, column string) error {
	switch rule.Name {
	case "is_unique":
		b.Unique(rule.Threshold)
	case "is_not_null":
		b.NotNull(rule.Threshold)
	case "is_before":
		b.Before(rule.Year, rule.Month, rule.Day, rule.Threshold)
	case "is_after":
		b.After(rule.Year, rule.Month, rule.Day, rule.Threshold)
	case "is_weekday":
		b.Weekday(rule.IsWeek, rule.Threshold)
	default:
		return &unknownRuleError{Rule: rule.Name, ColumnType: "date", Column: column}
	}
	return nil
}

func buildColumnSpec(col config.ColumnConfig) (models.ColumnSpec, error) {
	switch col.Datatype {
	case "string":
		b := builder.String(col.Name)
		for _, rule := range col.Rules {
			if err := applyStringRule(b, rule, col.Name); err != nil {
				return models.ColumnSpec{}, err
			}
		}
		return b.Build(), nil
	case "integer":
		b := builder.Int(col.Name)
		for _, rule := range col.Rules {
			if err := applyIntRule(b, rule, col.Name); err != nil {
				return models.ColumnSpec{}, err
			}
		}
		return b.Build(), nil
	case "float":
		b := builder.Float(col.Name)
		for _, rule := range col.Rules {
			if err := applyFloatRule(b, rule, col.Name); err != nil {
				return models.ColumnSpec{}, err
			}
		}
		return b.Build(), nil
	case "date":
		b := builder.Date(col.Name, col.DateFormat)
		for _, rule := range col.Rules {
			if err := applyDateRule(b, rule, col.Name); err != nil {
				return models.ColumnSpec{}, err
			}
		}
		return b.Build(), nil
	default:
		return models.ColumnSpec{}, &unknownDatatypeError{Datatype: col.Datatype, Column: col.Name}
	}
}

func buildRelationSpec(rel config.RelationConfig) (models.RelationSpec, error) {
	b := builder.Relation(rel.Left, rel.Right)
	op, ok := models.ParseOperator(rel.Op)
	if !ok {
		return models.RelationSpec{}, &unknownOperatorError{Op: rel.Op, Pair: rel.Left + "_" + rel.Right}
	}
	b.Compare(op, rel.Threshold)
	return b.Build(), nil
}

// constructTable compiles one config.TableConfig into a runnable
// tables.Table, choosing CsvTable or ParquetTable from the file extension.
func constructTable(tc config.TableConfig, readerCfg readers.Config) (tables.Table, error) {
	columns := make([]models.ColumnSpec, 0, len(tc.Columns))
	for _, col := range tc.Columns {
		spec, err := buildColumnSpec(col)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tc.Name, err)
		}
		columns = append(columns, spec)
	}

	relations := make([]models.RelationSpec, 0, len(tc.Relations))
	for _, rel := range tc.Relations {
		spec, err := buildRelationSpec(rel)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tc.Name, err)
		}
		relations = append(relations, spec)
	}

	switch strings.ToLower(filepath.Ext(tc.Path)) {
	case ".parquet":
		return tables.NewParquetTable(tc.Path, tc.Name, columns, relations, readerCfg)
	default:
		return tables.NewCsvTable(tc.Path, tc.Name, columns, relations, readerCfg)
	}
}
