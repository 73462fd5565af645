// Package cli provides the sqltranslate command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlstn/go-sqltranslate"
	"github.com/nlstn/go-sqltranslate/internal/cli/config"
)

// Version is set at build time.
var Version = "dev"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sqltranslate",
		Short: "Translate method-call expressions into SQL",
		Long: `sqltranslate translates method-call expressions such as

  c.Name.StartsWith(@prefix)

into SQL expression trees for a target database dialect and renders them
as parameterized SQL.

Configuration is read from sqltranslate.yaml, SQLTRANSLATE_* environment
variables and flags, in increasing order of precedence.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if path := config.FindConfigFile(cfgFile); path != "" {
				logger.Debug("using config file", slog.String("path", path))
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqltranslate.yaml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "Target dialect ("+joinDialects()+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sqltranslate.Dialects(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewTranslateCommand())
	rootCmd.AddCommand(NewRulesCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{Dialect: config.DefaultDialect, Format: config.DefaultFormat}
}

func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func joinDialects() string {
	return strings.Join(sqltranslate.Dialects(), ", ")
}

func newTranslator(ctx context.Context, cfg *config.Config) (*sqltranslate.Translator, error) {
	return sqltranslate.New(
		sqltranslate.WithDialect(cfg.Dialect),
		sqltranslate.WithLogger(getLogger(ctx)),
	)
}
