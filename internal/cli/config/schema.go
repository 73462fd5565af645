package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nlstn/go-sqltranslate/internal/binder"
	"github.com/nlstn/go-sqltranslate/types"
)

// BuildSchema converts the schema section into a binder schema and the
// values of the parameters that declare one.
func (c *Config) BuildSchema() (*binder.Schema, map[string]any, error) {
	s := binder.NewSchema()
	for alias, tc := range c.Schema.Tables {
		table := binder.Table{Name: tc.Name, Columns: make(map[string]binder.Column, len(tc.Columns))}
		for prop, cc := range tc.Columns {
			t, err := types.Parse(cc.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("schema.tables.%s.columns.%s: %w", alias, prop, err)
			}
			table.Columns[prop] = binder.Column{Name: cc.Column, Type: t}
		}
		s.AddTable(alias, table)
	}

	values := make(map[string]any)
	for name, pc := range c.Schema.Params {
		t, err := types.Parse(pc.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("schema.params.%s: %w", name, err)
		}
		s.AddParam(name, t)
		if pc.Value == nil {
			continue
		}
		v, err := coerce(pc.Value, t)
		if err != nil {
			return nil, nil, fmt.Errorf("schema.params.%s: %w", name, err)
		}
		values[name] = v
	}
	return s, values, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// coerce converts a YAML or environment value to the Go type of t.
func coerce(v any, t types.Tag) (any, error) {
	s, isString := v.(string)
	switch base := types.Unwrap(t); {
	case base.IsTemporal() && isString:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("invalid %s value %q", base, s)
	case base == types.Decimal:
		d, err := decimal.NewFromString(fmt.Sprint(v))
		if err != nil {
			return nil, fmt.Errorf("invalid decimal value %v", v)
		}
		return d, nil
	case base == types.Guid && isString:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid guid value %q", s)
		}
		return id, nil
	}
	return v, nil
}
