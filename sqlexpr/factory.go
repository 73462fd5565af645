package sqlexpr

import "github.com/nlstn/go-sqltranslate/types"

// Fn builds a nullable function call whose arguments all propagate NULL.
func Fn(name string, returnType types.Tag, args ...Node) *FunctionCall {
	propagates := make([]bool, len(args))
	for i := range propagates {
		propagates[i] = true
	}
	return &FunctionCall{
		Name:           name,
		Args:           append([]Node(nil), args...),
		ReturnType:     returnType,
		Nullable:       true,
		PropagatesNull: propagates,
	}
}

// FnWith builds a function call with explicit nullability facts.
// propagatesNull must be nil or have one entry per argument.
func FnWith(name string, returnType types.Tag, nullable bool, propagatesNull []bool, args ...Node) *FunctionCall {
	if propagatesNull != nil && len(propagatesNull) != len(args) {
		panic("sqlexpr: propagatesNull length does not match argument count")
	}
	return &FunctionCall{
		Name:           name,
		Args:           append([]Node(nil), args...),
		ReturnType:     returnType,
		Nullable:       nullable,
		PropagatesNull: append([]bool(nil), propagatesNull...),
	}
}

// Frag builds an opaque SQL fragment.
func Frag(text string, t types.Tag) *Fragment {
	return &Fragment{Text: text, FragmentType: t}
}

// CastTo builds CAST(operand AS storeType).
func CastTo(operand Node, storeType string, target types.Tag) *Cast {
	return &Cast{Operand: operand, StoreType: storeType, TargetType: target}
}

// Implicit wraps operand in a compiler-style implicit conversion.
func Implicit(operand Node, target types.Tag) *Convert {
	return &Convert{Operand: operand, TargetType: target}
}

// Compensate wraps an equality in null compensation.
func Compensate(equality Node) *NullCompensated {
	return &NullCompensated{Operand: equality}
}

// LikeOf builds subject LIKE pattern without an escape character.
func LikeOf(subject, pattern Node) *Like {
	return &Like{Subject: subject, Pattern: pattern}
}

// LikeEscaped builds subject LIKE pattern ESCAPE escape.
func LikeEscaped(subject, pattern, escape Node) *Like {
	return &Like{Subject: subject, Pattern: pattern, Escape: escape}
}

// CaseOf builds a searched CASE expression. elseNode may be nil.
func CaseOf(whens []When, elseNode Node) *Case {
	return &Case{Whens: append([]When(nil), whens...), Else: elseNode}
}

// Const builds a constant and infers its type from the Go value.
func Const(v any) *Constant {
	return &Constant{Value: v, ValueType: types.FromValue(v)}
}

// ConstOf builds a constant of an explicit type.
func ConstOf(v any, t types.Tag) *Constant {
	return &Constant{Value: v, ValueType: t}
}

// Null builds a typed SQL NULL.
func Null(t types.Tag) *Constant {
	return &Constant{Value: nil, ValueType: types.Nullable(t)}
}

// Param builds a runtime parameter reference.
func Param(name string, t types.Tag) *Parameter {
	return &Parameter{Name: name, ValueType: t}
}

// Col builds a column reference. table may be empty.
func Col(table, name string, t types.Tag) *Column {
	return &Column{Table: table, Name: name, ColumnType: t}
}

func compare(op BinaryOp, l, r Node) *Binary {
	return &Binary{Op: op, Left: l, Right: r, ResultType: types.Bool}
}

func Equal(l, r Node) *Binary        { return compare(OpEqual, l, r) }
func NotEqual(l, r Node) *Binary     { return compare(OpNotEqual, l, r) }
func LessThan(l, r Node) *Binary     { return compare(OpLessThan, l, r) }
func LessEqual(l, r Node) *Binary    { return compare(OpLessEqual, l, r) }
func GreaterThan(l, r Node) *Binary  { return compare(OpGreaterThan, l, r) }
func GreaterEqual(l, r Node) *Binary { return compare(OpGreaterEqual, l, r) }
func AndAlso(l, r Node) *Binary      { return compare(OpAndAlso, l, r) }
func OrElse(l, r Node) *Binary       { return compare(OpOrElse, l, r) }

func Add(l, r Node) *Binary      { return arith(OpAdd, l, r) }
func Subtract(l, r Node) *Binary { return arith(OpSubtract, l, r) }
func Multiply(l, r Node) *Binary { return arith(OpMultiply, l, r) }
func Divide(l, r Node) *Binary   { return arith(OpDivide, l, r) }
func Modulo(l, r Node) *Binary   { return arith(OpModulo, l, r) }

// Concat builds string concatenation.
func Concat(l, r Node) *Binary {
	return &Binary{Op: OpConcat, Left: l, Right: r, ResultType: types.String}
}

// BinaryOf builds a binary expression with an explicit result type.
func BinaryOf(op BinaryOp, l, r Node, result types.Tag) *Binary {
	return &Binary{Op: op, Left: l, Right: r, ResultType: result}
}

func Not(n Node) *Unary       { return &Unary{Op: OpNot, Operand: n, ResultType: types.Bool} }
func Negate(n Node) *Unary    { return &Unary{Op: OpNegate, Operand: n, ResultType: n.Type()} }
func IsNull(n Node) *Unary    { return &Unary{Op: OpIsNull, Operand: n, ResultType: types.Bool} }
func IsNotNull(n Node) *Unary { return &Unary{Op: OpIsNotNull, Operand: n, ResultType: types.Bool} }

// Client builds a client-evaluation placeholder.
func Client(description string, t types.Tag) *ClientEval {
	return &ClientEval{Description: description, ValueType: t}
}

var numericRank = map[types.Tag]int{
	types.Byte: 1, types.SByte: 1,
	types.Int16: 2, types.UInt16: 2,
	types.Int32: 3, types.UInt32: 3,
	types.Int64: 4, types.UInt64: 4,
	types.Float32: 5,
	types.Float64: 6,
	types.Decimal: 7,
}

// arith infers the result type of an arithmetic operator: temporal minus
// temporal is an interval, otherwise numeric operands widen and anything else
// keeps the left operand's type.
func arith(op BinaryOp, l, r Node) *Binary {
	lt, rt := l.Type(), r.Type()
	nullable := lt.IsNullable() || rt.IsNullable()
	lb, rb := types.Unwrap(lt), types.Unwrap(rt)

	result := lb
	switch {
	case op == OpSubtract && lt.IsTemporal() && rt.IsTemporal():
		result = types.TimeSpan
	case lt.IsNumeric() && rt.IsNumeric():
		if numericRank[rb] > numericRank[lb] {
			result = rb
		}
	case lt.IsNumeric() && !rt.IsNumeric() && rb != types.Object:
		result = rb
	}
	if nullable {
		result = types.Nullable(result)
	}
	return &Binary{Op: op, Left: l, Right: r, ResultType: result}
}
