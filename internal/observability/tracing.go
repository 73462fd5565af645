package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with translation-specific span creation methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartTranslation starts a span for dispatching one site.
func (t *Tracer) StartTranslation(ctx context.Context, dialect, kind, declaringType, member string) (context.Context, trace.Span) {
	attrs := append([]attribute.KeyValue{DialectAttr(dialect)}, SiteAttrs(kind, declaringType, member)...)
	return t.tracer.Start(ctx, "sqltranslate.translate", trace.WithAttributes(attrs...))
}

// EndTranslation annotates the span with the outcome and ends it. A failed
// translation is an expected result, not a span error.
func (t *Tracer) EndTranslation(span trace.Span, translated bool, reason string) {
	span.SetAttributes(OutcomeAttrs(translated, reason)...)
	span.End()
}

// StartRender starts a span for rendering a tree to SQL.
func (t *Tracer) StartRender(ctx context.Context, flavor string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "sqltranslate.render", trace.WithAttributes(FlavorAttr(flavor)))
}

// StartDBQuery starts a span for a database query.
func (t *Tracer) StartDBQuery(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "db.query", trace.WithAttributes(
		attribute.String("db.operation", operation),
	))
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
