package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer:      tracenoop.NewTracerProvider().Tracer(""),
		serviceName: "",
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// the noop meter never fails
	m.translationCount, _ = meter.Int64Counter(metricTranslationCount)          //nolint:errcheck
	m.translationDuration, _ = meter.Float64Histogram(metricTranslationDuration) //nolint:errcheck
	m.renderCount, _ = meter.Int64Counter(metricRenderCount)                    //nolint:errcheck
	m.dbQueryDuration, _ = meter.Float64Histogram(metricDBQueryDuration)         //nolint:errcheck

	return m
}
