package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-sqltranslate/internal/binder"
	"github.com/nlstn/go-sqltranslate/types"
)

const sampleConfig = `
dialect: sqlite
format: json
schema:
  tables:
    c:
      name: customers
      columns:
        Name:
          column: name
          type: string?
  params:
    prefix:
      type: string
      value: Ad
    since:
      type: datetime
      value: "2020-03-02"
    limit:
      type: decimal
      value: "12.50"
    unbound:
      type: int32
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqltranslate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dialect", "", "")
	fs.String("format", "", "")
	fs.Bool("client-fallback", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.ClientFallback)
	assert.Empty(t, cfg.Schema.Tables)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig), nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "json", cfg.Format)
	require.Contains(t, cfg.Schema.Tables, "c")
	assert.Equal(t, "customers", cfg.Schema.Tables["c"].Name)
	assert.Equal(t, ColumnConfig{Column: "name", Type: "string?"}, cfg.Schema.Tables["c"].Columns["Name"])
}

func TestLoadFindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqltranslate.yml"), []byte("dialect: xugu\n"), 0o600))
	t.Chdir(dir)

	assert.Equal(t, "sqltranslate.yml", FindConfigFile(""))
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "xugu", cfg.Dialect)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SQLTRANSLATE_DIALECT", "XuGu")
		t.Setenv("SQLTRANSLATE_CLIENT_FALLBACK", "true")

		cfg, err := Load(path, testFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "xugu", cfg.Dialect)
		assert.True(t, cfg.ClientFallback)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("SQLTRANSLATE_DIALECT", "xugu")

		cfg, err := Load(path, testFlags(t, "--dialect", "oracle", "--format", "yaml"))
		require.NoError(t, err)
		assert.Equal(t, "oracle", cfg.Dialect)
		assert.Equal(t, "yaml", cfg.Format)
	})

	t.Run("unchanged flags keep file values", func(t *testing.T) {
		cfg, err := Load(path, testFlags(t, "--client-fallback"))
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Dialect)
		assert.True(t, cfg.ClientFallback)
	})
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "dialect: mysql\n"), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Config.Dialect must be one of")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Dialect: "oracle", Format: "text"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing dialect", func(c *Config) { c.Dialect = "" }, "Config.Dialect is required"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "Config.Format must be one of: text json yaml"},
		{"bad flavor", func(c *Config) { c.Flavor = "mysql" }, "Config.Flavor must be one of"},
		{"postgres flavor", func(c *Config) { c.Flavor = "postgres" }, ""},
		{"table without name", func(c *Config) {
			c.Schema.Tables = map[string]TableConfig{"c": {}}
		}, "is required"},
		{"unknown column type", func(c *Config) {
			c.Schema.Tables = map[string]TableConfig{"c": {Name: "customers", Columns: map[string]ColumnConfig{
				"Name": {Column: "name", Type: "varchar"},
			}}}
		}, `has unknown type "varchar"`},
		{"unknown param type", func(c *Config) {
			c.Schema.Params = map[string]ParamConfig{"p": {Type: "text"}}
		}, `has unknown type "text"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildSchema(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig), nil)
	require.NoError(t, err)

	s, values, err := cfg.BuildSchema()
	require.NoError(t, err)

	assert.Equal(t, binder.Table{Name: "customers", Columns: map[string]binder.Column{
		"Name": {Name: "name", Type: types.Nullable(types.String)},
	}}, s.Tables["c"])
	assert.Equal(t, types.String, s.Params["prefix"])
	assert.Equal(t, types.Int32, s.Params["unbound"])

	assert.Equal(t, "Ad", values["prefix"])
	assert.Equal(t, time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), values["since"])
	assert.Equal(t, "12.5", values["limit"].(interface{ String() string }).String())
	assert.NotContains(t, values, "unbound")
}

func TestBuildSchemaRejectsBadValues(t *testing.T) {
	cfg := Config{Schema: SchemaConfig{Params: map[string]ParamConfig{
		"since": {Type: "datetime", Value: "yesterday"},
	}}}
	_, _, err := cfg.BuildSchema()
	assert.ErrorContains(t, err, "schema.params.since")
}
