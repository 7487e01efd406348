package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// OtelTracer adapts an OpenTelemetry trace.Tracer to this package's Tracer
// interface.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer wraps t.
func NewOtelTracer(t trace.Tracer) *OtelTracer {
	return &OtelTracer{tracer: t}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End() { s.span.End() }

func (s otelSpan) SetError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (o *OtelTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	spanCtx, span := o.tracer.Start(ctx, name)
	return spanCtx, otelSpan{span: span}
}
