package engine

import (
	"io"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/dataguard/dataguard/internal/compiler"
	"github.com/dataguard/dataguard/internal/observability"
	"github.com/dataguard/dataguard/internal/results"
	"github.com/dataguard/dataguard/internal/stats"
	"github.com/dataguard/dataguard/internal/unicity"
	"github.com/dataguard/dataguard/pkg/models"
)

// closeSource releases a BatchSource's underlying file handle when it
// implements io.Closer; readers over in-memory data do not need to.
func closeSource(src BatchSource) {
	if c, ok := src.(io.Closer); ok {
		c.Close()
	}
}

// BatchSource yields record batches sequentially. Next returns (nil, io.EOF)
// once the source is exhausted.
type BatchSource interface {
	Next() (arrow.Record, error)
}

// Engine validates record batches against a fixed set of compiled columns
// and relations. A single Engine can run ValidateBatches/ValidateStream any
// number of times; each call starts a fresh accumulator state.
type Engine struct {
	Columns   []*compiler.ExecutableColumn
	Relations []*compiler.ExecutableRelation
	Allocator memory.Allocator
}

// NewEngine wires a compiled rule set into a reusable Engine.
func NewEngine(columns []*compiler.ExecutableColumn, relations []*compiler.ExecutableRelation) *Engine {
	return &Engine{Columns: columns, Relations: relations, Allocator: memory.DefaultAllocator}
}

// run holds per-validation accumulator state, fresh for each call.
type run struct {
	results    *results.Accumulator
	statsAcc   *stats.Accumulator
	unicityAcc *unicity.Accumulator

	nonNullMu  sync.Mutex
	nonNull    map[string]int64
	nullCounts map[string]int64

	retainedMu sync.Mutex
	retained   map[string][]arrow.Array // columns with stat rules, kept for the second pass
}

func (e *Engine) newRun() *run {
	r := &run{
		results:    results.NewAccumulator(),
		statsAcc:   stats.NewAccumulator(),
		nonNull:    make(map[string]int64),
		nullCounts: make(map[string]int64),
		retained:   make(map[string][]arrow.Array),
	}
	var unicityCols []string
	for _, col := range e.Columns {
		registerColumn(r, col)
		if col.HasUnicity() {
			unicityCols = append(unicityCols, col.Name)
		}
	}
	for _, rel := range e.Relations {
		registerRelation(r, rel)
	}
	r.unicityAcc = unicity.NewAccumulator(unicityCols)
	return r
}

func registerColumn(r *run, col *compiler.ExecutableColumn) {
	for _, rule := range col.StringRules {
		r.results.Register(col.Name, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range col.Int64Rules {
		r.results.Register(col.Name, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range col.Int64StatRules {
		r.results.Register(col.Name, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range col.Float64Rules {
		r.results.Register(col.Name, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range col.Float64StatRules {
		r.results.Register(col.Name, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range col.DateRules {
		r.results.Register(col.Name, rule.RuleName(), rule.GetThreshold())
	}
	if col.TypeCheck != nil {
		r.results.Register(col.Name, "TypeCheck", col.TypeCheck.Tolerance)
	}
	if col.NullCheck != nil {
		r.results.Register(col.Name, "NullCheck", col.NullCheck.Threshold)
	}
	if col.UnicityCheck != nil {
		r.results.Register(col.Name, "Unicity", col.UnicityCheck.Threshold)
	}
}

func registerRelation(r *run, rel *compiler.ExecutableRelation) {
	for _, rule := range rel.Int64Rules {
		r.results.RegisterRelation(rel.PairLabel, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range rel.Float64Rules {
		r.results.RegisterRelation(rel.PairLabel, rule.RuleName(), rule.GetThreshold())
	}
	for _, rule := range rel.DateRules {
		r.results.RegisterRelation(rel.PairLabel, rule.RuleName(), rule.GetThreshold())
	}
}

// ValidateBatches runs the batch-mode algorithm (spec.md §4.6): total_rows
// is known up front, batches validate in parallel, and stat rules re-scan
// the retained casted arrays once global statistics are final.
func (e *Engine) ValidateBatches(tableName string, batches []arrow.Record) (models.ValidationResult, error) {
	r := e.newRun()

	var totalRows int64
	for _, b := range batches {
		totalRows += b.NumRows()
	}

	g := new(errgroup.Group)
	g.SetLimit(maxParallelism())
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			e.validateBatch(r, batch, true)
			observability.BatchesProcessedTotal.WithLabelValues(tableName, "ok").Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ValidationResult{}, err
	}

	e.applyUnicity(r, totalRows)
	e.applyStatRules(r)
	for _, arrs := range r.retained {
		for _, a := range arrs {
			a.Release()
		}
	}

	return e.finalize(tableName, totalRows, r), nil
}

// ValidateStream runs the streaming-mode algorithm (spec.md §4.6):
// total_rows is unknown up front, so it is derived from the batches seen.
// open must return a fresh BatchSource reading the same data from the
// start; it is called a second time only when at least one column carries
// a statistical rule, to re-apply StdDev/MeanVariance checks once the
// global stats are known.
func (e *Engine) ValidateStream(tableName string, open func() (BatchSource, error)) (models.ValidationResult, error) {
	r := e.newRun()

	src, err := open()
	if err != nil {
		return models.ValidationResult{}, err
	}

	var totalRows int64
	needsSecondPass := e.hasStatRules()
	for {
		batch, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			closeSource(src)
			return models.ValidationResult{}, err
		}
		totalRows += batch.NumRows()
		e.validateBatch(r, batch, false)
		observability.BatchesProcessedTotal.WithLabelValues(tableName, "ok").Inc()
		batch.Release()
	}
	closeSource(src)

	e.applyUnicity(r, totalRows)

	if needsSecondPass {
		src2, err := open()
		if err != nil {
			return models.ValidationResult{}, err
		}
		for {
			batch, err := src2.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				closeSource(src2)
				return models.ValidationResult{}, err
			}
			e.applyStatRulesToBatch(r, batch)
			batch.Release()
		}
		closeSource(src2)
	}
	for _, arrs := range r.retained {
		for _, a := range arrs {
			a.Release()
		}
	}

	return e.finalize(tableName, totalRows, r), nil
}

func (e *Engine) hasStatRules() bool {
	for _, col := range e.Columns {
		if len(col.Int64StatRules) > 0 || len(col.Float64StatRules) > 0 {
			return true
		}
	}
	return false
}

func (r *run) addNonNull(column string, n int64) {
	r.nonNullMu.Lock()
	r.nonNull[column] += n
	r.nonNullMu.Unlock()
}

func (r *run) addNulls(column string, n int64) {
	r.nonNullMu.Lock()
	r.nullCounts[column] += n
	r.nonNullMu.Unlock()
}

func (r *run) retain(column string, arr arrow.Array) {
	arr.Retain()
	r.retainedMu.Lock()
	r.retained[column] = append(r.retained[column], arr)
	r.retainedMu.Unlock()
}
