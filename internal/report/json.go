package report

import (
	"encoding/json"
	"time"

	"github.com/dataguard/dataguard/pkg/models"
)

// jsonRule mirrors one rule outcome in the JSON report (spec.md §6).
type jsonRule struct {
	Name         string  `json:"name"`
	Errors       int64   `json:"errors"`
	ErrorPercent float64 `json:"errorPercent"`
}

type jsonColumn struct {
	Name  string     `json:"name"`
	Rules []jsonRule `json:"rules"`
}

type jsonTable struct {
	Name   string       `json:"name"`
	NRows  int64        `json:"nRows"`
	Pass   bool         `json:"pass"`
	Columns []jsonColumn `json:"columns"`
}

// JSONReporter accumulates every table result into one document, emitted by
// Marshal once the run is complete. Lifecycle hooks other than
// OnTableResult are no-ops, since the JSON report carries only final state
// (spec.md §6).
type JSONReporter struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	tables    []jsonTable
}

// NewJSONReporter builds a reporter that stamps the document with version
// and the given timestamp (so the caller, not this package, owns the
// current time).
func NewJSONReporter(version string, timestamp time.Time) *JSONReporter {
	return &JSONReporter{
		Version:   version,
		Timestamp: timestamp.Format("2006-01-02 15:04:05"),
	}
}

func (r *JSONReporter) OnStart()                                    {}
func (r *JSONReporter) OnLoading()                                   {}
func (r *JSONReporter) OnTableLoad(current, total int, name string) {}
func (r *JSONReporter) OnValidationStart()                          {}
func (r *JSONReporter) OnSummary(passed, failed int)                {}
func (r *JSONReporter) OnWaiting()                                   {}

func (r *JSONReporter) OnTableResult(result models.ValidationResult) {
	columns := make([]jsonColumn, 0, len(result.Columns))
	for _, col := range result.Columns {
		rules := make([]jsonRule, 0, len(col.Rules))
		for _, rule := range col.Rules {
			rules = append(rules, jsonRule{Name: rule.RuleName, Errors: rule.ErrorCount, ErrorPercent: rule.ErrorPercent})
		}
		columns = append(columns, jsonColumn{Name: col.Name, Rules: rules})
	}
	r.tables = append(r.tables, jsonTable{
		Name:    result.TableName,
		NRows:   result.TotalRows,
		Pass:    result.Passed(),
		Columns: columns,
	})
}

// Marshal renders the accumulated report as pretty-printed JSON.
func (r *JSONReporter) Marshal() ([]byte, error) {
	doc := struct {
		Version   string      `json:"version"`
		Timestamp string      `json:"timestamp"`
		Tables    []jsonTable `json:"tables"`
	}{
		Version:   r.Version,
		Timestamp: r.Timestamp,
		Tables:    r.tables,
	}
	return json.MarshalIndent(doc, "", "  ")
}
