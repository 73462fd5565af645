// Package translate implements the ordered, first-match-wins dispatch of call
// and member sites to translation rules.
package translate

import (
	"fmt"
	"strings"

	"github.com/nlstn/go-sqltranslate/types"
)

// AnyShape is the parameter shape that matches every overload of a method
const AnyShape = "*"

// Key is a declarative dispatch key resolved when the registry is built
type Key struct {
	Kind          Kind
	DeclaringType types.Tag
	Member        string
	Shape         string
}

// CallKey matches exactly one overload.
func CallKey(declaring types.Tag, method string, params ...types.Tag) Key {
	return Key{Kind: KindCall, DeclaringType: declaring, Member: method, Shape: types.Join(params)}
}

// AnyCall matches every overload of a method.
func AnyCall(declaring types.Tag, method string) Key {
	return Key{Kind: KindCall, DeclaringType: declaring, Member: method, Shape: AnyShape}
}

// MemberKey matches a member read.
func MemberKey(declaring types.Tag, member string) Key {
	return Key{Kind: KindMember, DeclaringType: declaring, Member: member}
}

func (k Key) String() string {
	return Identity(k).String()
}

// Entry is one translation rule. Entries with Keys are reached through the
// key index; entries without Keys are pattern rules and are considered for
// every site. Match, when set, is evaluated after the key matches.
type Entry struct {
	Name      string
	Keys      []Key
	Match     func(Site) bool
	Translate func(Site) Result
}

// IsPattern reports whether the entry is reached by scanning rather than by key.
func (e Entry) IsPattern() bool { return len(e.Keys) == 0 }

func (e Entry) matches(site Site) bool {
	return e.Match == nil || e.Match(site)
}

// Registry is an immutable ordered list of entries with a key index
type Registry struct {
	entries  []Entry
	byKey    map[Key][]int
	patterns []int
}

// NewRegistry validates entries and builds the dispatch index. The order of
// entries is the dispatch order.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, len(entries)),
		byKey:   make(map[Key][]int),
	}
	for i, e := range entries {
		if e.Translate == nil {
			return nil, fmt.Errorf("%w: entry %d (%s) has no translate function", ErrInvalidEntry, i, e.Name)
		}
		if e.IsPattern() && e.Match == nil {
			return nil, fmt.Errorf("%w: pattern entry %d (%s) has no match predicate", ErrInvalidEntry, i, e.Name)
		}
		e.Keys = append([]Key(nil), e.Keys...)
		r.entries[i] = e

		if e.IsPattern() {
			r.patterns = append(r.patterns, i)
			continue
		}
		seen := make(map[Key]bool, len(e.Keys))
		for _, k := range e.Keys {
			if k.Kind == KindMember && k.Shape != "" {
				return nil, fmt.Errorf("%w: entry %d (%s) has a member key with a parameter shape", ErrInvalidEntry, i, e.Name)
			}
			if seen[k] {
				continue
			}
			seen[k] = true
			r.byKey[k] = append(r.byKey[k], i)
		}
	}
	return r, nil
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns a copy of the ordered entry list.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// candidates returns the positions of every entry that may match id, in
// registry order.
func (r *Registry) candidates(id Identity) []int {
	exact := r.byKey[Key(id)]
	var overloads []int
	if id.Kind == KindCall {
		overloads = r.byKey[Key{Kind: KindCall, DeclaringType: id.DeclaringType, Member: id.Member, Shape: AnyShape}]
	}
	return mergeSorted(exact, overloads, r.patterns)
}

// mergeSorted merges ascending position lists, dropping duplicates.
func mergeSorted(lists ...[]int) []int {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]int, 0, total)
	idx := make([]int, len(lists))
	for {
		best, from := -1, -1
		for li, l := range lists {
			if idx[li] < len(l) && (best == -1 || l[idx[li]] < best) {
				best, from = l[idx[li]], li
			}
		}
		if from == -1 {
			return out
		}
		idx[from]++
		if len(out) == 0 || out[len(out)-1] != best {
			out = append(out, best)
		}
	}
}

// Describe lists entry names with their keys, one per line.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for i, e := range r.entries {
		keys := make([]string, len(e.Keys))
		for j, k := range e.Keys {
			keys[j] = k.String()
		}
		if e.IsPattern() {
			keys = []string{"<pattern>"}
		}
		fmt.Fprintf(&sb, "%3d %s: %s\n", i, e.Name, strings.Join(keys, " "))
	}
	return sb.String()
}
