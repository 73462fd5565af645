// Package config loads the command line configuration.
package config

// Defaults
const (
	DefaultDialect = "oracle"
	DefaultFormat  = "text"
)

// Config is the merged command line configuration.
type Config struct {
	Dialect string `koanf:"dialect" validate:"required,dialect"`
	// Flavor selects the rendered SQL syntax; empty means the dialect's own
	Flavor         string       `koanf:"flavor" validate:"omitempty,oneof=oracle sqlite postgres"`
	Format         string       `koanf:"format" validate:"required,oneof=text json yaml"`
	Verbose        bool         `koanf:"verbose"`
	ClientFallback bool         `koanf:"client_fallback"`
	Schema         SchemaConfig `koanf:"schema"`
}

// SchemaConfig declares the tables and parameters expressions may reference.
type SchemaConfig struct {
	Tables map[string]TableConfig `koanf:"tables" validate:"dive"`
	Params map[string]ParamConfig `koanf:"params" validate:"dive"`
}

// TableConfig maps an alias to a table and its properties to columns.
type TableConfig struct {
	Name    string                  `koanf:"name" validate:"required"`
	Columns map[string]ColumnConfig `koanf:"columns" validate:"dive"`
}

// ColumnConfig is one property of a table.
type ColumnConfig struct {
	Column string `koanf:"column" validate:"required"`
	Type   string `koanf:"type" validate:"required,typetag"`
}

// ParamConfig declares a parameter's type and an optional value to bind.
type ParamConfig struct {
	Type  string `koanf:"type" validate:"required,typetag"`
	Value any    `koanf:"value"`
}
