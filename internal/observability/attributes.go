// Package observability provides OpenTelemetry-based instrumentation for
// expression translation.
//
// Tracing and metrics are opt-in. When no providers are configured, no-op
// implementations are used.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/go-sqltranslate"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/go-sqltranslate"
)

// Attribute keys for translation spans and metrics.
const (
	AttrDialect       = "sqltranslate.dialect"
	AttrDeclaringType = "sqltranslate.declaring_type"
	AttrMember        = "sqltranslate.member"
	AttrSiteKind      = "sqltranslate.site_kind"
	AttrOutcome       = "sqltranslate.outcome"
	AttrReason        = "sqltranslate.reason"
	AttrFlavor        = "sqltranslate.flavor"
)

// Outcomes for the sqltranslate.outcome attribute.
const (
	OutcomeTranslated      = "translated"
	OutcomeNotTranslatable = "not_translatable"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldDialect = "dialect"
	LogFieldEntries = "entries"
	LogFieldTraceID = "trace_id"
	LogFieldSpanID  = "span_id"
	LogFieldError   = "error"
)

// DialectAttr creates an attribute for the provider's dialect name.
func DialectAttr(name string) attribute.KeyValue {
	return attribute.String(AttrDialect, name)
}

// SiteAttrs describes a translation site.
func SiteAttrs(kind, declaringType, member string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSiteKind, kind),
		attribute.String(AttrDeclaringType, declaringType),
		attribute.String(AttrMember, member),
	}
}

// OutcomeAttrs describes how a translation ended. The reason is omitted for
// successful translations.
func OutcomeAttrs(translated bool, reason string) []attribute.KeyValue {
	if translated {
		return []attribute.KeyValue{attribute.String(AttrOutcome, OutcomeTranslated)}
	}
	return []attribute.KeyValue{
		attribute.String(AttrOutcome, OutcomeNotTranslatable),
		attribute.String(AttrReason, reason),
	}
}

func FlavorAttr(name string) attribute.KeyValue {
	return attribute.String(AttrFlavor, name)
}
