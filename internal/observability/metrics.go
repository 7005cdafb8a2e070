package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the validation engine and reader layer.

var (
	// RuleEvaluationDuration times a single rule's evaluation over one batch.
	RuleEvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataguard_rule_evaluation_duration_seconds",
			Help:    "Time taken to evaluate a single rule against one batch",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 20), // 1µs to 1s
		},
		[]string{"column", "rule"},
	)

	// RuleViolationsTotal counts violations recorded per (column, rule).
	RuleViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataguard_rule_violations_total",
			Help: "Total number of rule violations recorded",
		},
		[]string{"column", "rule"},
	)

	// BatchesProcessedTotal counts batches consumed by the engine, by table
	// and outcome (ok|error).
	BatchesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataguard_batches_processed_total",
			Help: "Total number of record batches processed by the validation engine",
		},
		[]string{"table", "outcome"},
	)

	// RowsValidatedTotal counts rows seen per table.
	RowsValidatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataguard_rows_validated_total",
			Help: "Total number of rows validated per table",
		},
		[]string{"table"},
	)

	// TableValidationDuration times a full validate() call per table.
	TableValidationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataguard_table_validation_duration_seconds",
			Help:    "Time taken to validate an entire table",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 20), // 1ms to ~17min
		},
		[]string{"table", "format"},
	)

	// TypeCastFailuresTotal counts per-batch total type-cast failures that
	// caused downstream rules to be skipped for that batch.
	TypeCastFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataguard_type_cast_total_failures_total",
			Help: "Total number of batches where every non-null cell in a column failed to cast",
		},
		[]string{"table", "column"},
	)

	// ReaderChunksTotal counts chunks/row-groups produced by the reader layer.
	ReaderChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataguard_reader_chunks_total",
			Help: "Total number of chunks (CSV) or row groups (Parquet) read",
		},
		[]string{"format"},
	)

	// StreamingBackpressureWait is a histogram for time spent waiting on the
	// next streaming batch. Streaming readers are pulled directly by the
	// engine, with no channel or producer goroutine between them, and no
	// engine or reader code observes this histogram.
	StreamingBackpressureWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataguard_streaming_backpressure_wait_seconds",
			Help:    "Time the engine spends waiting on the bounded streaming channel",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
	)

	// TablesActive tracks the number of tables currently registered in a
	// MultiTable façade.
	TablesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataguard_tables_active",
			Help: "Number of tables currently registered for validation",
		},
	)
)
