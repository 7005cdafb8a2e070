package tables

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/engine"
	"github.com/dataguard/dataguard/internal/readers"
	"github.com/dataguard/dataguard/pkg/models"
)

// CsvTable validates a CSV file. Every column gets a TypeCheck, since CSV
// cells are always read as strings regardless of declared logical type
// (spec.md §4.4).
type CsvTable struct {
	path      string
	name      string
	columns   []*compiler.ExecutableColumn
	relations []*compiler.ExecutableRelation
	config    readers.Config
	eng       *engine.Engine
}

// NewCsvTable compiles columns and relations against path, ready to
// validate immediately.
func NewCsvTable(path, name string, columns []models.ColumnSpec, relations []models.RelationSpec, config readers.Config) (*CsvTable, error) {
	compiledColumns, err := compileColumns(columns, true)
	if err != nil {
		return nil, &buildError{table: name, err: err}
	}
	compiledRelations, err := compileRelations(relations, compiler.BuildColumnTypeMap(columns))
	if err != nil {
		return nil, &buildError{table: name, err: err}
	}
	return &CsvTable{
		path:      path,
		name:      name,
		columns:   compiledColumns,
		relations: compiledRelations,
		config:    config,
		eng:       newEngine(compiledColumns, compiledRelations),
	}, nil
}

// Validate picks batch or streaming mode from the file's size against the
// configured threshold (spec.md §4.6, §5).
func (t *CsvTable) Validate() (models.ValidationResult, error) {
	return observeValidate(t.name, "csv", func() (models.ValidationResult, error) {
		names := columnNames(t.columns)

		info, err := os.Stat(t.path)
		if err != nil {
			return models.ValidationResult{}, err
		}

		if t.config.ShouldStream(info.Size()) {
			return t.eng.ValidateStream(t.name, func() (engine.BatchSource, error) {
				return readers.OpenCSVStream(t.path, names, t.config, memory.DefaultAllocator)
			})
		}

		batches, err := readers.ReadCSVParallel(t.path, names, t.config, memory.DefaultAllocator, numWorkers())
		if err != nil {
			return models.ValidationResult{}, err
		}
		defer releaseAll(batches)
		return t.eng.ValidateBatches(t.name, batches)
	})
}

// GetRules summarizes the compiled rule names per column.
func (t *CsvTable) GetRules() map[string][]string { return getRules(t.columns) }
