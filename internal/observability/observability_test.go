package observability

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugGatedByEnv(t *testing.T) {
	old := os.Getenv("DATAGUARD_DEBUG")
	defer os.Setenv("DATAGUARD_DEBUG", old)

	os.Unsetenv("DATAGUARD_DEBUG")
	currentLogLevel = LogLevelInfo
	debugEnabled = false
	assert.False(t, IsDebugEnabled())

	currentLogLevel = LogLevelDebug
	debugEnabled = true
	assert.True(t, IsDebugEnabled())
}

func TestLogFunctionsDoNotPanic(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		Debug(ctx, "debug %d", 1)
		Info(ctx, "info %s", "x")
		Warn(ctx, "warn")
		Error(ctx, "error %v", assert.AnError)
		LogBatch(ctx, "orders", 100, time.Millisecond)
		LogTableResult(ctx, "orders", true, 100, time.Millisecond)
		LogTableResult(ctx, "orders", false, 100, time.Millisecond)
		LogError(ctx, "validate", assert.AnError)
	})
}

func TestStartTableValidationSpan(t *testing.T) {
	ctx, span := StartTableValidationSpan(context.Background(), "orders", "csv")
	require.NotNil(t, span)
	RecordTableResult(span, true, 10, time.Millisecond)
	span.End()
	require.NotNil(t, ctx)

	_, span2 := StartTableValidationSpan(context.Background(), "orders", "csv")
	RecordError(span2, assert.AnError)
	span2.End()
}

func TestStartBatchSpan(t *testing.T) {
	_, span := StartBatchSpan(context.Background(), "orders", 50)
	require.NotNil(t, span)
	span.End()
}

func TestMetricsRegistered(t *testing.T) {
	RuleViolationsTotal.WithLabelValues("age", "NumericRange").Inc()
	BatchesProcessedTotal.WithLabelValues("orders", "ok").Inc()
	RowsValidatedTotal.WithLabelValues("orders").Add(10)
	TableValidationDuration.WithLabelValues("orders", "csv").Observe(0.01)
	TypeCastFailuresTotal.WithLabelValues("orders", "age").Inc()
	ReaderChunksTotal.WithLabelValues("csv").Inc()
	StreamingBackpressureWait.Observe(0.001)
	TablesActive.Inc()
	TablesActive.Dec()
}
