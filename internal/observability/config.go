package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultServiceName is recorded on the tracer when no service name is set.
const DefaultServiceName = "sqltranslate"

// Config is the telemetry of one translator. A nil *Config instruments nothing.
type Config struct {
	// TracerProvider receives translation, render and query spans; nil disables tracing
	TracerProvider trace.TracerProvider
	// MeterProvider receives translation and render measurements; nil disables metrics
	MeterProvider metric.MeterProvider
	// Dialect labels every translation span and measurement
	Dialect     string
	ServiceName string
	// QueryTracing adds spans for the gorm queries that run rendered filters
	QueryTracing bool

	tracer  *Tracer
	metrics *Metrics
}

// Option configures a Config.
type Option func(*Config)

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Config) {
		c.MeterProvider = mp
	}
}

// WithDialect sets the dialect recorded on translations.
func WithDialect(name string) Option {
	return func(c *Config) {
		c.Dialect = name
	}
}

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithQueryTracing enables spans for queries run through RegisterGORMCallbacks.
func WithQueryTracing() Option {
	return func(c *Config) {
		c.QueryTracing = true
	}
}

// New applies opts and builds the tracer and metrics. Missing providers fall
// back to no-op implementations.
func New(opts ...Option) (*Config, error) {
	c := &Config{ServiceName: DefaultServiceName}
	for _, opt := range opts {
		opt(c)
	}

	c.tracer = NewNoopTracer()
	if c.TracerProvider != nil {
		c.tracer = NewTracer(c.TracerProvider, c.ServiceName)
	}
	c.metrics = NewNoopMetrics()
	if c.MeterProvider != nil {
		m, err := NewMetrics(c.MeterProvider)
		if err != nil {
			return nil, fmt.Errorf("observability: creating metrics: %w", err)
		}
		c.metrics = m
	}
	return c, nil
}

// Tracer returns the configured tracer, or a no-op tracer.
func (c *Config) Tracer() *Tracer {
	if c == nil || c.tracer == nil {
		return NewNoopTracer()
	}
	return c.tracer
}

// Metrics returns the configured metrics, or no-op metrics.
func (c *Config) Metrics() *Metrics {
	if c == nil || c.metrics == nil {
		return NewNoopMetrics()
	}
	return c.metrics
}

// IsEnabled reports whether a tracer or meter provider is configured.
func (c *Config) IsEnabled() bool {
	return c != nil && (c.TracerProvider != nil || c.MeterProvider != nil)
}

func (c *Config) dialect() string {
	if c == nil {
		return ""
	}
	return c.Dialect
}

// Translation starts observing the dispatch of one site. The returned func
// records the outcome and ends the span; call it exactly once.
func (c *Config) Translation(ctx context.Context, kind, declaringType, member string) func(translated bool, reason string) {
	tracer, metrics := c.Tracer(), c.Metrics()
	_, span := tracer.StartTranslation(ctx, c.dialect(), kind, declaringType, member)
	start := time.Now()
	return func(translated bool, reason string) {
		metrics.RecordTranslation(ctx, c.dialect(), translated, reason, time.Since(start))
		tracer.EndTranslation(span, translated, reason)
	}
}

// Render starts observing the rendering of a tree for flavor. The returned
// func records err and ends the span.
func (c *Config) Render(ctx context.Context, flavor string) func(err error) {
	tracer, metrics := c.Tracer(), c.Metrics()
	_, span := tracer.StartRender(ctx, flavor)
	return func(err error) {
		metrics.RecordRender(ctx, flavor, err)
		tracer.RecordError(span, err)
		span.End()
	}
}
