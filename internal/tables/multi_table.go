package tables

import (
	"fmt"

	"github.com/dataguard/dataguard/internal/observability"
	"github.com/dataguard/dataguard/pkg/models"
)

// TableNotFoundError is returned by ValidateTable when the requested name
// was never registered via AddTable.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("tables: no table registered under name %q", e.Name)
}

// MultiTable groups every table declared by a run, so a single config file
// can validate several CSV/Parquet files in one pass (spec.md §6).
type MultiTable struct {
	tables map[string]Table
	order  []string
}

// NewMultiTable returns an empty registry.
func NewMultiTable() *MultiTable {
	return &MultiTable{tables: make(map[string]Table)}
}

// AddTable registers a compiled table under name, overwriting any table
// previously registered under the same name.
func (m *MultiTable) AddTable(name string, t Table) {
	if _, exists := m.tables[name]; !exists {
		m.order = append(m.order, name)
		observability.TablesActive.Inc()
	}
	m.tables[name] = t
}

// ValidateTable runs a single registered table by name.
func (m *MultiTable) ValidateTable(name string) (models.ValidationResult, error) {
	t, ok := m.tables[name]
	if !ok {
		return models.ValidationResult{}, &TableNotFoundError{Name: name}
	}
	return t.Validate()
}

// ValidateAll runs every registered table in registration order, collecting
// every result even if one table fails; per-table errors are returned
// alongside whatever results succeeded, keyed by table name.
func (m *MultiTable) ValidateAll() ([]models.ValidationResult, map[string]error) {
	results := make([]models.ValidationResult, 0, len(m.order))
	errs := make(map[string]error)
	for _, name := range m.order {
		res, err := m.tables[name].Validate()
		if err != nil {
			errs[name] = err
			continue
		}
		results = append(results, res)
	}
	return results, errs
}
