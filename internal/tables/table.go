package tables

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/engine"
	"github.com/dataguard/dataguard/internal/observability"
	"github.com/dataguard/dataguard/pkg/models"
)

// Table validates one file on disk against a compiled schema.
type Table interface {
	Validate() (models.ValidationResult, error)
	// GetRules summarizes the compiled rule names per column, for display
	// and debugging; the TypeCheck rule (present on every column of a
	// table that carries one) is listed first.
	GetRules() map[string][]string
}

// buildError wraps a schema's compile failures with the table name that
// was being prepared, so a multi-table run can tell which table failed.
type buildError struct {
	table string
	err   error
}

func (e *buildError) Error() string { return fmt.Sprintf("table %q: %v", e.table, e.err) }
func (e *buildError) Unwrap() error { return e.err }

func compileColumns(specs []models.ColumnSpec, needsTypeCheck bool) ([]*compiler.ExecutableColumn, error) {
	columns := make([]*compiler.ExecutableColumn, 0, len(specs))
	for _, spec := range specs {
		col, err := compiler.CompileColumn(spec, needsTypeCheck)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func compileRelations(specs []models.RelationSpec, columnTypes map[string]models.LogicalType) ([]*compiler.ExecutableRelation, error) {
	relations := make([]*compiler.ExecutableRelation, 0, len(specs))
	for _, spec := range specs {
		rel, err := compiler.CompileRelation(spec, columnTypes)
		if err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, nil
}

func columnNames(columns []*compiler.ExecutableColumn) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

func getRules(columns []*compiler.ExecutableColumn) map[string][]string {
	result := make(map[string][]string, len(columns))
	for _, col := range columns {
		var names []string
		if col.TypeCheck != nil {
			names = append(names, "TypeCheck")
		}
		if col.NullCheck != nil {
			names = append(names, "NullCheck")
		}
		for _, r := range col.StringRules {
			names = append(names, r.RuleName())
		}
		for _, r := range col.Int64Rules {
			names = append(names, r.RuleName())
		}
		for _, r := range col.Int64StatRules {
			names = append(names, r.RuleName())
		}
		for _, r := range col.Float64Rules {
			names = append(names, r.RuleName())
		}
		for _, r := range col.Float64StatRules {
			names = append(names, r.RuleName())
		}
		for _, r := range col.DateRules {
			names = append(names, r.RuleName())
		}
		if col.UnicityCheck != nil {
			names = append(names, "Unicity")
		}
		result[col.Name] = names
	}
	return result
}

func newEngine(columns []*compiler.ExecutableColumn, relations []*compiler.ExecutableRelation) *engine.Engine {
	return engine.NewEngine(columns, relations)
}

func numWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// observeValidate wraps a table's Validate body with a trace span, Prometheus
// metrics, and leveled logging; every concrete Table.Validate dispatches
// through it so the ambient stack stays uniform across CSV and Parquet.
func observeValidate(name, format string, run func() (models.ValidationResult, error)) (models.ValidationResult, error) {
	ctx, span := observability.StartTableValidationSpan(context.Background(), name, format)
	defer span.End()

	start := time.Now()
	result, err := run()
	duration := time.Since(start)

	observability.TableValidationDuration.WithLabelValues(name, format).Observe(duration.Seconds())
	if err != nil {
		observability.RecordError(span, err)
		observability.LogError(ctx, "validate table "+name, err)
		return result, err
	}

	passed := result.Passed()
	observability.RowsValidatedTotal.WithLabelValues(name).Add(float64(result.TotalRows))
	observability.RecordTableResult(span, passed, result.TotalRows, duration)
	observability.LogTableResult(ctx, name, passed, result.TotalRows, duration)
	return result, nil
}
