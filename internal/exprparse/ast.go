package exprparse

import (
	"fmt"
	"strings"

	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Node is a parsed expression
type Node interface {
	fmt.Stringer
	node()
}

// Literal is a constant with its source type.
type Literal struct {
	Value any
	Type  types.Tag
}

// Param is a named parameter such as @prefix.
type Param struct {
	Name string
}

// Ident is a bare name: a table alias or a static type.
type Ident struct {
	Name string
}

// Member is a property read such as c.Name or DateTime.Now.
type Member struct {
	Receiver Node
	Name     string
}

// Call is a method invocation such as c.Name.StartsWith(@p).
type Call struct {
	Receiver Node
	Method   string
	Args     []Node
}

// Unary is ! or unary minus.
type Unary struct {
	Op      string
	Operand Node
}

// Binary is an infix operator.
type Binary struct {
	Op          string
	Left, Right Node
}

func (*Literal) node() {}
func (*Param) node()   {}
func (*Ident) node()   {}
func (*Member) node()  {}
func (*Call) node()    {}
func (*Unary) node()   {}
func (*Binary) node()  {}

func (l *Literal) String() string {
	if l.Value == nil {
		return "null"
	}
	return sqlexpr.FormatValue(l.Value)
}

func (p *Param) String() string  { return "@" + p.Name }
func (i *Ident) String() string  { return i.Name }
func (m *Member) String() string { return m.Receiver.String() + "." + m.Name }

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", c.Receiver, c.Method, strings.Join(args, ", "))
}

func (u *Unary) String() string  { return u.Op + u.Operand.String() }
func (b *Binary) String() string { return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")" }
