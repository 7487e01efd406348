package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OtelMetrics adapts an OpenTelemetry metric.Meter to this package's
// Metrics interface. Instruments are created lazily and cached by name.
type OtelMetrics struct {
	meter    metric.Meter
	counters map[string]metric.Int64Counter
	hists    map[string]metric.Float64Histogram
}

// NewOtelMetrics constructs an OtelMetrics backed by meter.
func NewOtelMetrics(meter metric.Meter) *OtelMetrics {
	return &OtelMetrics{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
		hists:    make(map[string]metric.Float64Histogram),
	}
}

func (m *OtelMetrics) IncrCounter(name string, tags ...string) {
	c, ok := m.counters[name]
	if !ok {
		var err error
		c, err = m.meter.Int64Counter(name)
		if err != nil {
			return
		}
		m.counters[name] = c
	}
	c.Add(context.Background(), 1, metric.WithAttributes(tagsToAttrs(tags)...))
}

func (m *OtelMetrics) ObserveDuration(name string, seconds float64, tags ...string) {
	h, ok := m.hists[name]
	if !ok {
		var err error
		h, err = m.meter.Float64Histogram(name)
		if err != nil {
			return
		}
		m.hists[name] = h
	}
	h.Record(context.Background(), seconds, metric.WithAttributes(tagsToAttrs(tags)...))
}

func tagsToAttrs(tags []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		attrs = append(attrs, attribute.String(tags[i], tags[i+1]))
	}
	return attrs
}
