package binder

import (
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm/schema"

	"github.com/nlstn/go-sqltranslate/types"
)

// Column is a database column and the source type of the property mapped to it.
type Column struct {
	Name string
	Type types.Tag
}

// Table maps property names to columns.
type Table struct {
	Name    string
	Columns map[string]Column
}

// Schema resolves the aliases and parameters an expression may reference.
type Schema struct {
	Tables map[string]Table
	Params map[string]types.Tag
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{Tables: make(map[string]Table), Params: make(map[string]types.Tag)}
}

// AddTable registers alias for table.
func (s *Schema) AddTable(alias string, table Table) {
	s.Tables[alias] = table
}

// AddParam declares a parameter's type.
func (s *Schema) AddParam(name string, t types.Tag) {
	s.Params[name] = t
}

var modelCache sync.Map

// AddModel registers alias for a gorm model. Table and column names follow
// gorm's naming strategy; fields without a translatable type are skipped.
func (s *Schema) AddModel(alias string, model any) error {
	parsed, err := schema.Parse(model, &modelCache, schema.NamingStrategy{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	table := Table{Name: parsed.Table, Columns: make(map[string]Column, len(parsed.Fields))}
	for _, f := range parsed.Fields {
		if f.DBName == "" {
			continue
		}
		t, err := types.FromGoType(f.FieldType)
		if err != nil {
			continue
		}
		table.Columns[f.Name] = Column{Name: f.DBName, Type: t}
	}
	s.AddTable(alias, table)
	return nil
}

// Aliases returns the registered aliases, sorted.
func (s *Schema) Aliases() []string {
	out := make([]string, 0, len(s.Tables))
	for alias := range s.Tables {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
