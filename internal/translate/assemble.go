package translate

// Position places an extension relative to the base entries
type Position int

const (
	// Append places entries after the base list, so base rules win on conflicts
	Append Position = iota
	// Prepend places entries before the base list, so they override base rules
	Prepend
)

func (p Position) String() string {
	if p == Prepend {
		return "prepend"
	}
	return "append"
}

// Extension is a named group of entries contributed by a provider
type Extension struct {
	Name     string
	Position Position
	Entries  []Entry
}

// Assemble builds a registry from base and extensions. The order is every
// Prepend extension in argument order, then base, then every Append
// extension in argument order. Neither base nor the extensions are modified.
func Assemble(base []Entry, extensions ...Extension) (*Registry, error) {
	var head, tail []Entry
	for _, ext := range extensions {
		switch ext.Position {
		case Prepend:
			head = append(head, ext.Entries...)
		default:
			tail = append(tail, ext.Entries...)
		}
	}

	all := make([]Entry, 0, len(head)+len(base)+len(tail))
	all = append(all, head...)
	all = append(all, base...)
	all = append(all, tail...)
	return NewRegistry(all)
}
