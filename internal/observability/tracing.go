package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the tracer used for spans around table/batch validation. With no
// exporter configured it defaults to the global noop provider; callers that
// want exported spans install a real TracerProvider via
// go.opentelemetry.io/otel/sdk/trace before the CLI starts.
var Tracer = otel.Tracer("dataguard.engine")

// StartTableValidationSpan opens a span around one table's validate() call.
func StartTableValidationSpan(ctx context.Context, table, format string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "table.validate",
		trace.WithAttributes(
			attribute.String("dataguard.table", table),
			attribute.String("dataguard.format", format),
		),
	)
}

// RecordTableResult annotates a table-validation span with its outcome.
func RecordTableResult(span trace.Span, passed bool, totalRows int64, duration time.Duration) {
	span.SetAttributes(
		attribute.Bool("dataguard.passed", passed),
		attribute.Int64("dataguard.total_rows", totalRows),
		attribute.Float64("dataguard.duration_ms", float64(duration.Microseconds())/1000.0),
	)
	if passed {
		span.SetStatus(codes.Ok, "validation passed")
	} else {
		span.SetStatus(codes.Error, "validation failed")
	}
}

// StartBatchSpan opens a span around a single record batch's column
// validation pass.
func StartBatchSpan(ctx context.Context, table string, rows int64) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "batch.validate",
		trace.WithAttributes(
			attribute.String("dataguard.table", table),
			attribute.Int64("dataguard.batch_rows", rows),
		),
	)
}

// RecordError marks a span as failed and records the error on it.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
