package rules

import (
	"cmp"
	"maps"
	"slices"

	"github.com/nlstn/go-sqltranslate/types"
)

// Table is an immutable lookup from a key to a SQL token
type Table[K cmp.Ordered] struct {
	m map[K]string
}

// TableEntry is one row of a Table
type TableEntry[K cmp.Ordered] struct {
	Key   K
	Token string
}

// NewTable copies m into a new table.
func NewTable[K cmp.Ordered](m map[K]string) Table[K] {
	return Table[K]{m: maps.Clone(m)}
}

// Lookup returns the token stored for k.
func (t Table[K]) Lookup(k K) (string, bool) {
	v, ok := t.m[k]
	return v, ok
}

// Len returns the number of rows.
func (t Table[K]) Len() int { return len(t.m) }

// Entries returns every row sorted by key.
func (t Table[K]) Entries() []TableEntry[K] {
	keys := slices.Sorted(maps.Keys(t.m))
	out := make([]TableEntry[K], len(keys))
	for i, k := range keys {
		out[i] = TableEntry[K]{Key: k, Token: t.m[k]}
	}
	return out
}

// ConvertTable maps Convert.ToXxx targets to store types and lists the
// source types the conversions accept
type ConvertTable struct {
	targets Table[types.Tag]
	sources map[types.Tag]bool
}

// NewConvertTable builds a table from target store types and accepted sources.
func NewConvertTable(targets map[types.Tag]string, sources []types.Tag) ConvertTable {
	set := make(map[types.Tag]bool, len(sources))
	for _, s := range sources {
		set[types.Unwrap(s)] = true
	}
	return ConvertTable{targets: NewTable(targets), sources: set}
}

// Target returns the store type for a conversion target.
func (t ConvertTable) Target(target types.Tag) (string, bool) {
	return t.targets.Lookup(target)
}

// Accepts reports whether source (nullable or not) may be converted.
func (t ConvertTable) Accepts(source types.Tag) bool {
	return t.sources[types.Unwrap(source)]
}

// Entries returns the target rows sorted by type.
func (t ConvertTable) Entries() []TableEntry[types.Tag] {
	return t.targets.Entries()
}

// Sources returns the accepted source types, sorted.
func (t ConvertTable) Sources() []types.Tag {
	return slices.Sorted(maps.Keys(t.sources))
}
