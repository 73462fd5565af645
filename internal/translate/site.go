package translate

import (
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Kind distinguishes method calls from member reads
type Kind int

const (
	KindCall Kind = iota
	KindMember
)

func (k Kind) String() string {
	if k == KindMember {
		return "member"
	}
	return "call"
}

// Site is a call site or member-access site presented for translation
type Site interface {
	Identity() Identity
	// ReceiverNode returns the translated receiver, or nil for static members
	ReceiverNode() sqlexpr.Node
}

// CallSite is an invocation of a named method with already-translated operands
type CallSite struct {
	DeclaringType types.Tag
	Method        string
	// ParamTypes is the declared overload's parameter list
	ParamTypes []types.Tag
	Receiver   sqlexpr.Node
	Args       []sqlexpr.Node
	ReturnType types.Tag
}

// NewCallSite builds a call site, copying params and args. receiver may be nil.
func NewCallSite(declaring types.Tag, method string, params []types.Tag, receiver sqlexpr.Node, args []sqlexpr.Node, returnType types.Tag) *CallSite {
	return &CallSite{
		DeclaringType: declaring,
		Method:        method,
		ParamTypes:    append([]types.Tag(nil), params...),
		Receiver:      receiver,
		Args:          append([]sqlexpr.Node(nil), args...),
		ReturnType:    returnType,
	}
}

func (s *CallSite) Identity() Identity {
	return Identity{Kind: KindCall, DeclaringType: s.DeclaringType, Member: s.Method, Shape: types.Join(s.ParamTypes)}
}

func (s *CallSite) ReceiverNode() sqlexpr.Node { return s.Receiver }

// Arg returns argument i or nil when out of range.
func (s *CallSite) Arg(i int) sqlexpr.Node {
	if i < 0 || i >= len(s.Args) {
		return nil
	}
	return s.Args[i]
}

// MemberSite is a property-style read with an optional receiver
type MemberSite struct {
	DeclaringType types.Tag
	Member        string
	Receiver      sqlexpr.Node
	DeclaredType  types.Tag
}

// NewMemberSite builds a member site. receiver may be nil.
func NewMemberSite(declaring types.Tag, member string, receiver sqlexpr.Node, declared types.Tag) *MemberSite {
	return &MemberSite{DeclaringType: declaring, Member: member, Receiver: receiver, DeclaredType: declared}
}

func (s *MemberSite) Identity() Identity {
	return Identity{Kind: KindMember, DeclaringType: s.DeclaringType, Member: s.Member}
}

func (s *MemberSite) ReceiverNode() sqlexpr.Node { return s.Receiver }

// Identity names a site for dispatch keys and diagnostics
type Identity struct {
	Kind          Kind
	DeclaringType types.Tag
	Member        string
	// Shape is the comma-joined parameter type list; empty for members
	Shape string
}

// String renders "string.StartsWith(string)" or "datetime.Year".
func (id Identity) String() string {
	if id.Kind == KindMember {
		return string(id.DeclaringType) + "." + id.Member
	}
	return string(id.DeclaringType) + "." + id.Member + "(" + id.Shape + ")"
}

// Operands returns the receiver (when present) followed by the arguments.
func Operands(site Site) []sqlexpr.Node {
	var out []sqlexpr.Node
	if r := site.ReceiverNode(); r != nil {
		out = append(out, r)
	}
	if call, ok := site.(*CallSite); ok {
		out = append(out, call.Args...)
	}
	return out
}
