package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeOutput writes v in the requested format, using text for the
// human-readable form.
func writeOutput[T any](w io.Writer, format string, v T, text func(io.Writer, T) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w, v)
	}
}

func writeTranslationsText(w io.Writer, results []Translation) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		lines := []string{r.Expression, "  tree: " + r.Tree, "  type: " + r.Type}
		if r.ClientEval {
			lines = append(lines, "  sql:  (requires client evaluation)")
		} else {
			lines = append(lines, "  sql:  "+r.SQL)
			if len(r.Vars) > 0 {
				lines = append(lines, fmt.Sprintf("  vars: %v", r.Vars))
			}
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
