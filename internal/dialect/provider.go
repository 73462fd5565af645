// Package dialect assembles translation providers: the shared rule list with
// a dialect's tables, plus the dialect's own extensions.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nlstn/go-sqltranslate/internal/rules"
	"github.com/nlstn/go-sqltranslate/internal/translate"
)

// Provider names
const (
	Oracle = "oracle"
	XuGu   = "xugu"
	SQLite = "sqlite"
)

// ErrUnknownDialect is returned when no provider is registered under a name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Provider is an assembled, immutable translation provider
type Provider struct {
	name       string
	flavor     string
	config     rules.Config
	dispatcher *translate.Dispatcher
}

// Name returns the dialect name.
func (p *Provider) Name() string { return p.name }

// Flavor returns the render flavor whose syntax the provider's output targets.
func (p *Provider) Flavor() string { return p.flavor }

// Config returns the dialect tables captured by the provider's rules.
func (p *Provider) Config() rules.Config { return p.config }

// Registry returns the provider's ordered registry.
func (p *Provider) Registry() *translate.Registry { return p.dispatcher.Registry() }

// Translate dispatches site against the provider's registry.
func (p *Provider) Translate(site translate.Site) translate.Result {
	return p.dispatcher.Translate(site)
}

// Dispatcher returns the provider's dispatcher.
func (p *Provider) Dispatcher() *translate.Dispatcher { return p.dispatcher }

type definition struct {
	flavor     string
	config     func() rules.Config
	extensions func(rules.Config) []translate.Extension
}

var definitions = map[string]definition{
	Oracle: {flavor: "oracle", config: rules.OracleConfig, extensions: oracleExtensions},
	XuGu:   {flavor: "oracle", config: rules.OracleConfig, extensions: xuguExtensions},
	SQLite: {flavor: "sqlite", config: sqliteConfig, extensions: sqliteExtensions},
}

// New assembles the named provider. Extra extensions are applied after the
// dialect's own, in argument order.
func New(name string, extra ...translate.Extension) (*Provider, error) {
	def, ok := definitions[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownDialect, name, strings.Join(List(), ", "))
	}

	cfg := def.config()
	exts := append(def.extensions(cfg), extra...)
	reg, err := translate.Assemble(rules.Builtins(cfg), exts...)
	if err != nil {
		return nil, fmt.Errorf("assembling %s provider: %w", name, err)
	}
	return &Provider{
		name:       strings.ToLower(name),
		flavor:     def.flavor,
		config:     cfg,
		dispatcher: translate.NewDispatcher(reg),
	}, nil
}

// List returns the registered dialect names, sorted.
func List() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
