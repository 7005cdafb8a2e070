package tables

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/engine"
	"github.com/dataguard/dataguard/internal/readers"
	"github.com/dataguard/dataguard/pkg/models"
)

// ParquetTable validates a Parquet file. Columns do not get a TypeCheck:
// Parquet already carries typed columns, so the file's own schema is
// trusted instead of re-parsing strings (spec.md §4.4, mirroring
// original_source's "we do not add TypeCheck, we use the schema from the
// parquet file").
type ParquetTable struct {
	path      string
	name      string
	columns   []*compiler.ExecutableColumn
	relations []*compiler.ExecutableRelation
	config    readers.Config
	eng       *engine.Engine
}

// NewParquetTable compiles columns and relations against path, ready to
// validate immediately.
func NewParquetTable(path, name string, columns []models.ColumnSpec, relations []models.RelationSpec, config readers.Config) (*ParquetTable, error) {
	compiledColumns, err := compileColumns(columns, false)
	if err != nil {
		return nil, &buildError{table: name, err: err}
	}
	compiledRelations, err := compileRelations(relations, compiler.BuildColumnTypeMap(columns))
	if err != nil {
		return nil, &buildError{table: name, err: err}
	}
	return &ParquetTable{
		path:      path,
		name:      name,
		columns:   compiledColumns,
		relations: compiledRelations,
		config:    config,
		eng:       newEngine(compiledColumns, compiledRelations),
	}, nil
}

// Validate reads every row group in parallel and runs the engine in batch
// mode; row-group granularity already bounds per-worker memory, so
// streaming mode is not offered for Parquet (spec.md §5).
func (t *ParquetTable) Validate() (models.ValidationResult, error) {
	return observeValidate(t.name, "parquet", func() (models.ValidationResult, error) {
		names := columnNames(t.columns)
		batches, err := readers.ReadParquetParallel(t.path, names, t.config, memory.DefaultAllocator, numWorkers())
		if err != nil {
			return models.ValidationResult{}, err
		}
		defer releaseAll(batches)
		return t.eng.ValidateBatches(t.name, batches)
	})
}

// GetRules summarizes the compiled rule names per column.
func (t *ParquetTable) GetRules() map[string][]string { return getRules(t.columns) }

func releaseAll(batches []arrow.Record) {
	for _, b := range batches {
		b.Release()
	}
}
