package sqlexpr

import (
	"bytes"
	"reflect"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DeepEqual reports whether a and b are structurally equal trees.
func DeepEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *FunctionCall:
		b, ok := b.(*FunctionCall)
		return ok && a.Name == b.Name && a.ReturnType == b.ReturnType && a.Nullable == b.Nullable &&
			slices.Equal(a.PropagatesNull, b.PropagatesNull) && equalAll(a.Args, b.Args)
	case *Fragment:
		b, ok := b.(*Fragment)
		return ok && *a == *b
	case *Cast:
		b, ok := b.(*Cast)
		return ok && a.StoreType == b.StoreType && a.TargetType == b.TargetType && DeepEqual(a.Operand, b.Operand)
	case *Convert:
		b, ok := b.(*Convert)
		return ok && a.TargetType == b.TargetType && DeepEqual(a.Operand, b.Operand)
	case *NullCompensated:
		b, ok := b.(*NullCompensated)
		return ok && DeepEqual(a.Operand, b.Operand)
	case *Like:
		b, ok := b.(*Like)
		return ok && DeepEqual(a.Subject, b.Subject) && DeepEqual(a.Pattern, b.Pattern) && DeepEqual(a.Escape, b.Escape)
	case *Case:
		b, ok := b.(*Case)
		if !ok || len(a.Whens) != len(b.Whens) || !DeepEqual(a.Else, b.Else) {
			return false
		}
		for i := range a.Whens {
			if !DeepEqual(a.Whens[i].Condition, b.Whens[i].Condition) || !DeepEqual(a.Whens[i].Result, b.Whens[i].Result) {
				return false
			}
		}
		return true
	case *Constant:
		b, ok := b.(*Constant)
		return ok && a.ValueType == b.ValueType && ValueEqual(a.Value, b.Value)
	case *Parameter:
		b, ok := b.(*Parameter)
		return ok && *a == *b
	case *Column:
		b, ok := b.(*Column)
		return ok && *a == *b
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && a.ResultType == b.ResultType && DeepEqual(a.Left, b.Left) && DeepEqual(a.Right, b.Right)
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && a.ResultType == b.ResultType && DeepEqual(a.Operand, b.Operand)
	case *ClientEval:
		b, ok := b.(*ClientEval)
		return ok && *a == *b
	}
	return false
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ValueEqual compares constant values, honouring decimal, time and byte semantics.
func ValueEqual(a, b any) bool {
	switch a := a.(type) {
	case decimal.Decimal:
		b, ok := b.(decimal.Decimal)
		return ok && a.Equal(b)
	case time.Time:
		b, ok := b.(time.Time)
		return ok && a.Equal(b)
	case []byte:
		b, ok := b.([]byte)
		return ok && bytes.Equal(a, b)
	case []rune:
		b, ok := b.([]rune)
		return ok && slices.Equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}
