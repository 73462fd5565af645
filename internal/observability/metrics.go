package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the translation metric instruments.
type Metrics struct {
	translationCount    metric.Int64Counter
	translationDuration metric.Float64Histogram
	renderCount         metric.Int64Counter
	dbQueryDuration     metric.Float64Histogram
}

const (
	metricTranslationCount    = "sqltranslate.translation.count"
	metricTranslationDuration = "sqltranslate.translation.duration"
	metricRenderCount         = "sqltranslate.render.count"
	metricDBQueryDuration     = "sqltranslate.db.query.duration"
)

// NewMetrics creates the instruments on the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	var err error
	m.translationCount, err = meter.Int64Counter(
		metricTranslationCount,
		metric.WithDescription("Number of translation attempts"),
		metric.WithUnit("{site}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", metricTranslationCount, err)
	}

	m.translationDuration, err = meter.Float64Histogram(
		metricTranslationDuration,
		metric.WithDescription("Duration of translation attempts in microseconds"),
		metric.WithUnit("us"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", metricTranslationDuration, err)
	}

	m.renderCount, err = meter.Int64Counter(
		metricRenderCount,
		metric.WithDescription("Number of trees rendered to SQL"),
		metric.WithUnit("{tree}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", metricRenderCount, err)
	}

	m.dbQueryDuration, err = meter.Float64Histogram(
		metricDBQueryDuration,
		metric.WithDescription("Duration of database queries in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", metricDBQueryDuration, err)
	}

	return m, nil
}

// RecordTranslation records one dispatch of a site.
func (m *Metrics) RecordTranslation(ctx context.Context, dialect string, translated bool, reason string, duration time.Duration) {
	attrs := append([]attribute.KeyValue{DialectAttr(dialect)}, OutcomeAttrs(translated, reason)...)
	opt := metric.WithAttributes(attrs...)
	m.translationCount.Add(ctx, 1, opt)
	m.translationDuration.Record(ctx, float64(duration.Microseconds()), opt)
}

// RecordRender records one rendering of a tree for the given flavor.
func (m *Metrics) RecordRender(ctx context.Context, flavor string, err error) {
	m.renderCount.Add(ctx, 1, metric.WithAttributes(
		FlavorAttr(flavor),
		attribute.Bool("error", err != nil),
	))
}

// RecordDBQuery records metrics for a database query.
func (m *Metrics) RecordDBQuery(ctx context.Context, operation string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	m.dbQueryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}
