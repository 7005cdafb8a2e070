// Package observability provides the leveled logger, Prometheus metrics, and
// tracing helpers shared by the reader, engine, and CLI layers.
package observability

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// LogLevel represents logging levels.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var (
	currentLogLevel = LogLevelInfo
	debugEnabled    = false
)

func init() {
	if os.Getenv("DATAGUARD_DEBUG") != "" {
		currentLogLevel = LogLevelDebug
		debugEnabled = true
		log.Println("debug logging enabled")
	}
}

// Debug logs debug-level messages (only if DATAGUARD_DEBUG is set).
func Debug(ctx context.Context, format string, args ...interface{}) {
	if currentLogLevel <= LogLevelDebug {
		logWithContext(ctx, "DEBUG", format, args...)
	}
}

// Info logs info-level messages.
func Info(ctx context.Context, format string, args ...interface{}) {
	if currentLogLevel <= LogLevelInfo {
		logWithContext(ctx, "INFO", format, args...)
	}
}

// Warn logs warning-level messages.
func Warn(ctx context.Context, format string, args ...interface{}) {
	if currentLogLevel <= LogLevelWarn {
		logWithContext(ctx, "WARN", format, args...)
	}
}

// Error logs error-level messages.
func Error(ctx context.Context, format string, args ...interface{}) {
	if currentLogLevel <= LogLevelError {
		logWithContext(ctx, "ERROR", format, args...)
	}
}

// logWithContext logs with a trace ID prefix when a span is active in ctx.
func logWithContext(ctx context.Context, level string, format string, args ...interface{}) {
	timestamp := time.Now().Format("2006/01/02 15:04:05.000")
	message := fmt.Sprintf(format, args...)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		traceID := span.SpanContext().TraceID().String()
		log.Printf("%s [%s] [trace=%s] %s", timestamp, level, traceID[:8], message)
	} else {
		log.Printf("%s [%s] %s", timestamp, level, message)
	}
}

// LogBatch logs a single batch having been processed during a validation run.
func LogBatch(ctx context.Context, table string, rows int64, duration time.Duration) {
	if debugEnabled {
		Debug(ctx, "batch processed: table=%s rows=%d duration=%v", table, rows, duration)
	}
}

// LogTableResult logs the outcome of validating one table.
func LogTableResult(ctx context.Context, table string, passed bool, rows int64, duration time.Duration) {
	if passed {
		Info(ctx, "table=%s result=pass rows=%d duration=%v", table, rows, duration)
	} else {
		Warn(ctx, "table=%s result=fail rows=%d duration=%v", table, rows, duration)
	}
}

// LogError logs an error for a named operation.
func LogError(ctx context.Context, operation string, err error) {
	Error(ctx, "operation failed: %s error=%v", operation, err)
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return debugEnabled
}
