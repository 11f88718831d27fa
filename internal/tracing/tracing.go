// Package tracing wires capability-boundary spans (registry fetches,
// subprocess runs) to the debug log.
package tracing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Configure installs a process-wide tracer provider that reports every
// completed span through slog at debug level. The returned func shuts the
// provider down.
func Configure() func() {
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(logSpanProcessor{}))
	otel.SetTracerProvider(provider)
	return func() {
		_ = provider.Shutdown(context.Background())
	}
}

type logSpanProcessor struct{}

func (logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (logSpanProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	attrs := []any{
		"span", span.Name(),
		"duration", span.EndTime().Sub(span.StartTime()).Round(time.Millisecond).String(),
	}
	if status := span.Status(); status.Code == codes.Error {
		attrs = append(attrs, "error", status.Description)
	}
	slog.Debug("span completed", attrs...)
}

func (logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (logSpanProcessor) ForceFlush(context.Context) error { return nil }
