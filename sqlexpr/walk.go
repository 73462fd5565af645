package sqlexpr

// Children returns the direct child nodes of n in evaluation order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *FunctionCall:
		return append([]Node(nil), n.Args...)
	case *Cast:
		return []Node{n.Operand}
	case *Convert:
		return []Node{n.Operand}
	case *NullCompensated:
		return []Node{n.Operand}
	case *Like:
		if n.Escape != nil {
			return []Node{n.Subject, n.Pattern, n.Escape}
		}
		return []Node{n.Subject, n.Pattern}
	case *Case:
		out := make([]Node, 0, 2*len(n.Whens)+1)
		for _, w := range n.Whens {
			out = append(out, w.Condition, w.Result)
		}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *Binary:
		return []Node{n.Left, n.Right}
	case *Unary:
		return []Node{n.Operand}
	}
	return nil
}

// Inspect traverses n depth-first, calling f for each node. Children are
// skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// ContainsClientEval reports whether any node of the tree requires client evaluation.
func ContainsClientEval(n Node) bool {
	found := false
	Inspect(n, func(c Node) bool {
		if _, ok := c.(*ClientEval); ok {
			found = true
		}
		return !found
	})
	return found
}

// IsConstant reports whether n is a constant, optionally behind an implicit conversion.
func IsConstant(n Node) (*Constant, bool) {
	for {
		switch v := n.(type) {
		case *Constant:
			return v, true
		case *Convert:
			n = v.Operand
		default:
			return nil, false
		}
	}
}
