// Package telemetry declares the ambient logging/metrics/tracing
// interfaces the runtime depends on, so the core never hardcodes a concrete
// backend. Concrete zap and OpenTelemetry adapters live alongside the
// interfaces; no-op implementations are the default everywhere.
package telemetry

import "context"

// Logger is the minimal structured-logging surface the core uses.
type Logger interface {
	Info(ctx context.Context, msg string, keyvals ...any)
	Warn(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// Metrics is the minimal counter/duration surface the core uses.
type Metrics interface {
	IncrCounter(name string, tags ...string)
	ObserveDuration(name string, seconds float64, tags ...string)
}

// Span is an in-flight trace span; callers must call End exactly once.
type Span interface {
	End()
	SetError(err error)
}

// Tracer starts spans around the spawn tool and the event monitor loop.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Noop implementations, used as defaults and in tests.

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger { return noopLogger{} }

type noopMetrics struct{}

func (noopMetrics) IncrCounter(string, ...string)            {}
func (noopMetrics) ObserveDuration(string, float64, ...string) {}

// NewNoopMetrics returns a Metrics that discards everything.
func NewNoopMetrics() Metrics { return noopMetrics{} }

type noopSpan struct{}

func (noopSpan) End()          {}
func (noopSpan) SetError(error) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, Span) { return ctx, noopSpan{} }

// NewNoopTracer returns a Tracer that creates spans doing nothing.
func NewNoopTracer() Tracer { return noopTracer{} }
