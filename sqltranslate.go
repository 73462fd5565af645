// Package sqltranslate translates typed method-call and member-access sites
// into SQL expression trees for a target database dialect.
//
// A Translator is assembled once per dialect and is safe for concurrent use.
// Translated trees can be rendered into gorm clauses with Expr and Where.
package sqltranslate

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-sqltranslate/internal/dialect"
	"github.com/nlstn/go-sqltranslate/internal/observability"
	"github.com/nlstn/go-sqltranslate/internal/sqlgen"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// DefaultDialect is used when no dialect option is given.
const DefaultDialect = Oracle

type config struct {
	dialect        string
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	detailedDB     bool
	extensions     []Extension
}

// Option configures a Translator.
type Option func(*config)

// WithDialect selects the target dialect. See Dialects for the known names.
func WithDialect(name string) Option {
	return func(c *config) {
		c.dialect = name
	}
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracerProvider enables tracing of translations.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider enables translation metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// WithDetailedDBTracing makes Instrument register query tracing callbacks.
func WithDetailedDBTracing() Option {
	return func(c *config) {
		c.detailedDB = true
	}
}

// WithExtension adds entries after the dialect's own extensions. Multiple
// extensions keep their order.
func WithExtension(ext Extension) Option {
	return func(c *config) {
		c.extensions = append(c.extensions, ext)
	}
}

// Translator dispatches sites against one dialect's rules
type Translator struct {
	provider *dialect.Provider
	logger   *slog.Logger
	obs      *observability.Config
}

// New assembles a Translator.
func New(opts ...Option) (*Translator, error) {
	cfg := config{dialect: DefaultDialect}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	provider, err := dialect.New(cfg.dialect, cfg.extensions...)
	if err != nil {
		return nil, fmt.Errorf("sqltranslate: %w", err)
	}

	obsOpts := []observability.Option{
		observability.WithTracerProvider(cfg.tracerProvider),
		observability.WithMeterProvider(cfg.meterProvider),
		observability.WithDialect(provider.Name()),
	}
	if cfg.detailedDB {
		obsOpts = append(obsOpts, observability.WithQueryTracing())
	}
	obs, err := observability.New(obsOpts...)
	if err != nil {
		return nil, fmt.Errorf("sqltranslate: %w", err)
	}

	cfg.logger.Debug("provider assembled",
		slog.String(observability.LogFieldDialect, provider.Name()),
		slog.Int(observability.LogFieldEntries, provider.Registry().Len()))

	return &Translator{provider: provider, logger: cfg.logger, obs: obs}, nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	return dialect.List()
}

// Dialect returns the translator's dialect name.
func (t *Translator) Dialect() string {
	return t.provider.Name()
}

// Dispatch translates site and returns the raw result. Failures are reported
// in the result, never logged.
func (t *Translator) Dispatch(ctx context.Context, site Site) Result {
	id := site.Identity()
	done := t.obs.Translation(ctx, id.Kind.String(), string(id.DeclaringType), id.Member)

	res := t.provider.Translate(site)

	reason := ""
	if !res.OK() {
		reason = res.Reason().String()
	}
	done(res.OK(), reason)
	return res
}

// Translate translates site. A site no rule translates yields an error
// matching ErrNotTranslatable.
func (t *Translator) Translate(ctx context.Context, site Site) (sqlexpr.Node, error) {
	if site == nil {
		return nil, ErrNilSite
	}
	res := t.Dispatch(ctx, site)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Node(), nil
}

// TranslateCall translates a method call. receiver is nil for static methods;
// returnType may be types.Invalid when the caller does not know it.
func (t *Translator) TranslateCall(ctx context.Context, declaring types.Tag, method string, params []types.Tag,
	receiver sqlexpr.Node, args []sqlexpr.Node, returnType types.Tag,
) (sqlexpr.Node, error) {
	return t.Translate(ctx, translate.NewCallSite(declaring, method, params, receiver, args, returnType))
}

// TranslateMember translates a member read. receiver is nil for static members.
func (t *Translator) TranslateMember(ctx context.Context, declaring types.Tag, member string,
	receiver sqlexpr.Node, declared types.Tag,
) (sqlexpr.Node, error) {
	return t.Translate(ctx, translate.NewMemberSite(declaring, member, receiver, declared))
}

// Resolve names the rule that decides site, if any.
func (t *Translator) Resolve(site Site) (string, bool) {
	return t.provider.Dispatcher().Resolve(site)
}

// Rule describes one registry entry
type Rule struct {
	Position int
	Name     string
	// Keys lists the dispatch keys; empty for pattern rules
	Keys []string
}

// Rules lists the translator's entries in dispatch order.
func (t *Translator) Rules() []Rule {
	entries := t.provider.Registry().Entries()
	out := make([]Rule, len(entries))
	for i, e := range entries {
		keys := make([]string, len(e.Keys))
		for j, k := range e.Keys {
			keys[j] = k.String()
		}
		out[i] = Rule{Position: i, Name: e.Name, Keys: keys}
	}
	return out
}

// Flavor returns the SQL syntax the translator's trees are written in.
func (t *Translator) Flavor() string {
	return t.provider.Flavor()
}

// Expr renders n as a gorm expression for db's dialector. params binds the
// tree's parameters by name.
func (t *Translator) Expr(ctx context.Context, db *gorm.DB, n sqlexpr.Node, params map[string]any) (clause.Expr, error) {
	flavor, err := sqlgen.DialectorFlavor(db)
	if err != nil {
		return clause.Expr{}, err
	}
	done := t.obs.Render(ctx, string(flavor))
	expr, err := sqlgen.Render(n, sqlgen.Options{Flavor: flavor, Params: params})
	done(err)
	return expr, err
}

// Where adds the predicate n to db's WHERE clause.
func (t *Translator) Where(ctx context.Context, db *gorm.DB, n sqlexpr.Node, params map[string]any) (*gorm.DB, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	expr, err := t.Expr(ctx, db, n, params)
	if err != nil {
		return db, fmt.Errorf("sqltranslate: rendering filter: %w", err)
	}
	return db.WithContext(ctx).Where(expr), nil
}

// Instrument registers query tracing callbacks on db when the translator was
// built with WithDetailedDBTracing.
func (t *Translator) Instrument(db *gorm.DB) error {
	if db == nil {
		return ErrNilDB
	}
	return observability.RegisterGORMCallbacks(db, t.obs)
}
