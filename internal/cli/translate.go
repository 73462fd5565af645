package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nlstn/go-sqltranslate"
	"github.com/nlstn/go-sqltranslate/internal/binder"
	"github.com/nlstn/go-sqltranslate/internal/exprparse"
	"github.com/nlstn/go-sqltranslate/internal/sqlgen"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
)

// Translation is the outcome of translating one expression.
type Translation struct {
	Expression string   `json:"expression" yaml:"expression"`
	Tree       string   `json:"tree" yaml:"tree"`
	Type       string   `json:"type" yaml:"type"`
	SQL        string   `json:"sql,omitempty" yaml:"sql,omitempty"`
	Vars       []string `json:"vars,omitempty" yaml:"vars,omitempty"`
	ClientEval bool     `json:"client_eval,omitempty" yaml:"client_eval,omitempty"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate EXPR...",
		Short: "Translate expressions into SQL",
		Long: `Translate parses each expression, resolves its columns and parameters
against the configured schema and translates every method call and member
read with the dialect's rules.

Parameters without a configured value are shown as @name in the vars list.`,
		Example: `  # Translate a filter for Oracle
  sqltranslate translate 'c.Name.StartsWith(@prefix)'

  # Render SQLite rules as Postgres SQL
  sqltranslate translate -d sqlite --flavor postgres 'c.Name.ToUpper() == "ADA"'

  # Keep untranslatable sites as client-evaluation placeholders
  sqltranslate translate --client-fallback -f json 'c.Name.PadLeft(3) == @prefix'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTranslate,
	}

	cmd.Flags().String("flavor", "", "SQL flavor to render (oracle, postgres, sqlite); defaults to the dialect's")
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().Bool("client-fallback", false, "Replace untranslatable sites with client-evaluation placeholders")
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)

	tr, err := newTranslator(ctx, cfg)
	if err != nil {
		return err
	}
	schema, values, err := cfg.BuildSchema()
	if err != nil {
		return err
	}

	flavor := cfg.Flavor
	if flavor == "" {
		flavor = tr.Flavor()
	}
	var opts []binder.Option
	if cfg.ClientFallback {
		opts = append(opts, binder.WithClientFallback())
	}

	results := make([]Translation, 0, len(args))
	for _, src := range args {
		t, err := translateOne(ctx, tr, schema, values, sqlgen.Flavor(flavor), src, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		logger.Debug("translated",
			slog.String("expression", src),
			slog.String("dialect", tr.Dialect()),
			slog.Bool("client_eval", t.ClientEval))
		results = append(results, t)
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Format, results, writeTranslationsText)
}

func translateOne(ctx context.Context, tr *sqltranslate.Translator, schema *binder.Schema, values map[string]any,
	flavor sqlgen.Flavor, src string, opts []binder.Option,
) (Translation, error) {
	expr, err := exprparse.Parse(src)
	if err != nil {
		return Translation{}, err
	}

	dispatch := binder.TranslatorFunc(func(site translate.Site) translate.Result {
		return tr.Dispatch(ctx, site)
	})
	node, err := binder.Bind(expr, schema, dispatch, opts...)
	if err != nil {
		return Translation{}, err
	}

	out := Translation{Expression: src, Tree: sqlexpr.Format(node), Type: string(node.Type())}
	if sqlexpr.ContainsClientEval(node) {
		out.ClientEval = true
		return out, nil
	}

	rendered, err := sqlgen.Render(node, sqlgen.Options{Flavor: flavor, Params: values, AllowUnbound: true})
	if err != nil {
		return Translation{}, err
	}
	out.SQL = rendered.SQL
	out.Vars = make([]string, len(rendered.Vars))
	for i, v := range rendered.Vars {
		if p, ok := v.(sqlgen.Placeholder); ok {
			out.Vars[i] = p.String()
			continue
		}
		out.Vars[i] = sqlexpr.FormatValue(v)
	}
	return out, nil
}
