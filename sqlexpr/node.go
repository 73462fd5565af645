// Package sqlexpr defines the SQL expression tree produced by translation.
//
// Nodes are immutable: constructors copy the slices they receive and no
// exported method mutates a node. A tree may therefore be shared between
// goroutines and between the results of independent translations.
package sqlexpr

import "github.com/nlstn/go-sqltranslate/types"

// Node is a SQL expression tree node
type Node interface {
	// Type returns the source-language type of the value the node produces
	Type() types.Tag
	sqlNode()
}

// BinaryOp is a binary SQL operator
type BinaryOp string

const (
	OpEqual        BinaryOp = "="
	OpNotEqual     BinaryOp = "<>"
	OpLessThan     BinaryOp = "<"
	OpLessEqual    BinaryOp = "<="
	OpGreaterThan  BinaryOp = ">"
	OpGreaterEqual BinaryOp = ">="
	OpAndAlso      BinaryOp = "AND"
	OpOrElse       BinaryOp = "OR"
	OpAdd          BinaryOp = "+"
	OpSubtract     BinaryOp = "-"
	OpMultiply     BinaryOp = "*"
	OpDivide       BinaryOp = "/"
	OpModulo       BinaryOp = "%"
	OpConcat       BinaryOp = "||"
)

// IsComparison reports whether op yields a boolean from two values.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return true
	}
	return false
}

// IsLogical reports whether op combines two predicates.
func (op BinaryOp) IsLogical() bool {
	return op == OpAndAlso || op == OpOrElse
}

// UnaryOp is a unary SQL operator
type UnaryOp string

const (
	OpNot       UnaryOp = "NOT"
	OpNegate    UnaryOp = "-"
	OpIsNull    UnaryOp = "IS NULL"
	OpIsNotNull UnaryOp = "IS NOT NULL"
)

// FunctionCall is a named SQL function applied to arguments
type FunctionCall struct {
	Name       string
	Args       []Node
	ReturnType types.Tag
	// Nullable reports whether the function can return NULL
	Nullable bool
	// PropagatesNull[i] reports whether a NULL Args[i] makes the result NULL
	PropagatesNull []bool
}

func (n *FunctionCall) Type() types.Tag { return n.ReturnType }
func (n *FunctionCall) sqlNode()        {}

// Fragment is literal SQL text embedded verbatim (e.g. SYSDATE or a date part keyword)
type Fragment struct {
	Text         string
	FragmentType types.Tag
}

func (n *Fragment) Type() types.Tag { return n.FragmentType }
func (n *Fragment) sqlNode()        {}

// Cast is an explicit CAST(operand AS store type)
type Cast struct {
	Operand    Node
	StoreType  string
	TargetType types.Tag
}

func (n *Cast) Type() types.Tag { return n.TargetType }
func (n *Cast) sqlNode()        {}

// Convert is an implicit conversion inserted by the compiler. It carries no SQL of its own.
type Convert struct {
	Operand    Node
	TargetType types.Tag
}

func (n *Convert) Type() types.Tag { return n.TargetType }
func (n *Convert) sqlNode()        {}

// NullCompensated wraps an equality so that NULL operands yield false instead of unknown
type NullCompensated struct {
	Operand Node
}

func (n *NullCompensated) Type() types.Tag { return types.Bool }
func (n *NullCompensated) sqlNode()        {}

// Like is a SQL LIKE match. Escape is nil when no escape character applies.
type Like struct {
	Subject Node
	Pattern Node
	Escape  Node
}

func (n *Like) Type() types.Tag { return types.Bool }
func (n *Like) sqlNode()        {}

// When is a single branch of a Case expression
type When struct {
	Condition Node
	Result    Node
}

// Case is a searched CASE expression. Else is nil when absent.
type Case struct {
	Whens []When
	Else  Node
}

func (n *Case) Type() types.Tag {
	if len(n.Whens) > 0 {
		return n.Whens[0].Result.Type()
	}
	if n.Else != nil {
		return n.Else.Type()
	}
	return types.Object
}
func (n *Case) sqlNode() {}

// Constant is a literal value. A nil Value is SQL NULL.
type Constant struct {
	Value     any
	ValueType types.Tag
}

func (n *Constant) Type() types.Tag { return n.ValueType }
func (n *Constant) sqlNode()        {}

// IsNull reports whether the constant is SQL NULL.
func (n *Constant) IsNull() bool { return n.Value == nil }

// Parameter is a value supplied when the query executes
type Parameter struct {
	Name      string
	ValueType types.Tag
}

func (n *Parameter) Type() types.Tag { return n.ValueType }
func (n *Parameter) sqlNode()        {}

// Column references a table column
type Column struct {
	Table      string
	Name       string
	ColumnType types.Tag
}

func (n *Column) Type() types.Tag { return n.ColumnType }
func (n *Column) sqlNode()        {}

// Binary is a binary operator expression
type Binary struct {
	Op         BinaryOp
	Left       Node
	Right      Node
	ResultType types.Tag
}

func (n *Binary) Type() types.Tag { return n.ResultType }
func (n *Binary) sqlNode()        {}

// Unary is a unary operator expression
type Unary struct {
	Op         UnaryOp
	Operand    Node
	ResultType types.Tag
}

func (n *Unary) Type() types.Tag { return n.ResultType }
func (n *Unary) sqlNode()        {}

// ClientEval stands in for an operand that could not be translated and must be
// evaluated by the caller. Rules never build SQL on top of it.
type ClientEval struct {
	Description string
	ValueType   types.Tag
}

func (n *ClientEval) Type() types.Tag { return n.ValueType }
func (n *ClientEval) sqlNode()        {}
