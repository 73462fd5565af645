package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nlstn/go-sqltranslate"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [filter]",
		Short: "List the dialect's translation rules in dispatch order",
		Long: `List every rule of the configured dialect in the order the dispatcher
consults them. The first rule whose key and predicate match a site decides it.

An optional filter keeps the rules whose name or keys contain it.`,
		Example: `  # List the Oracle rules
  sqltranslate rules

  # List the SQLite string rules as JSON
  sqltranslate rules -d sqlite -f json string.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)
			tr, err := newTranslator(ctx, cfg)
			if err != nil {
				return err
			}
			rules := tr.Rules()
			if len(args) == 1 {
				rules = filterRules(rules, args[0])
			}
			return writeOutput(cmd.OutOrStdout(), cfg.Format, rules, writeRulesTable)
		},
	}

	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml")
	return cmd
}

func filterRules(rules []sqltranslate.Rule, filter string) []sqltranslate.Rule {
	var out []sqltranslate.Rule
	for _, r := range rules {
		if strings.Contains(r.Name, filter) || strings.Contains(strings.Join(r.Keys, " "), filter) {
			out = append(out, r)
		}
	}
	return out
}

func writeRulesTable(w io.Writer, rules []sqltranslate.Rule) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Rule", "Keys"})
	for _, r := range rules {
		keys := strings.Join(r.Keys, "\n")
		if keys == "" {
			keys = "(pattern)"
		}
		t.AppendRow(table.Row{strconv.Itoa(r.Position), r.Name, keys})
	}
	t.AppendFooter(table.Row{"", strconv.Itoa(len(rules)) + " rules", ""})
	t.Render()
	return nil
}
