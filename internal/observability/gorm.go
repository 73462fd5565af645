package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	gormSpanKey      = "sqltranslate:gorm:span"
	gormStartTimeKey = "sqltranslate:gorm:start"
)

// RegisterGORMCallbacks registers GORM callbacks that trace the read queries
// carrying rendered filters. It is a no-op unless query tracing is enabled.
func RegisterGORMCallbacks(db *gorm.DB, cfg *Config) error {
	if cfg == nil || !cfg.QueryTracing {
		return nil
	}

	tracer := cfg.Tracer()

	if err := db.Callback().Query().Before("gorm:query").Register("sqltranslate:before_query", before(tracer, "query")); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("sqltranslate:after_query", after(tracer, cfg, "query")); err != nil {
		return err
	}

	if err := db.Callback().Row().Before("gorm:row").Register("sqltranslate:before_row", before(tracer, "row")); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("sqltranslate:after_row", after(tracer, cfg, "row")); err != nil {
		return err
	}

	if err := db.Callback().Raw().Before("gorm:raw").Register("sqltranslate:before_raw", before(tracer, "raw")); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register("sqltranslate:after_raw", after(tracer, cfg, "raw"))
}

func before(tracer *Tracer, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		ctx, span := tracer.StartDBQuery(ctx, operation)
		span.SetAttributes(attribute.String("db.system", "gorm"))

		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)
		db.InstanceSet(gormStartTimeKey, time.Now())
	}
}

func after(tracer *Tracer, cfg *Config, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		spanVal, ok := db.InstanceGet(gormSpanKey)
		if !ok {
			return
		}
		span, ok := spanVal.(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		if db.Statement != nil {
			if table := db.Statement.Table; table != "" {
				span.SetAttributes(attribute.String("db.sql.table", table))
			}
			span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
		}
		tracer.RecordError(span, db.Error)

		if startVal, ok := db.InstanceGet(gormStartTimeKey); ok {
			if start, ok := startVal.(time.Time); ok {
				cfg.Metrics().RecordDBQuery(db.Statement.Context, operation, time.Since(start))
			}
		}
	}
}
