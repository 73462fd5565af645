// Package sqlgen renders SQL expression trees as gorm clause expressions with
// positional "?" variables.
package sqlgen

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Options controls rendering
type Options struct {
	Flavor Flavor
	// Params binds parameter names to values
	Params map[string]any
	// AllowUnbound renders unbound parameters as Placeholder variables
	// instead of failing with ErrMissingParameter
	AllowUnbound bool
}

// Placeholder stands in for the value of an unbound parameter.
type Placeholder string

func (p Placeholder) String() string { return "@" + string(p) }

type mode int

const (
	valueMode mode = iota
	predicateMode
)

type renderer struct {
	opts Options
	sb   strings.Builder
	vars []any
}

// Render renders n for opts.Flavor. Boolean-typed roots are rendered as
// predicates, everything else as a value.
func Render(n sqlexpr.Node, opts Options) (clause.Expr, error) {
	if n == nil {
		return clause.Expr{}, fmt.Errorf("%w: nil", ErrUnknownNode)
	}
	if _, err := ParseFlavor(string(opts.Flavor)); err != nil {
		return clause.Expr{}, err
	}
	opts.Flavor = Flavor(strings.ToLower(string(opts.Flavor)))

	r := &renderer{opts: opts}
	m := valueMode
	if types.Unwrap(n.Type()) == types.Bool {
		m = predicateMode
	}
	if err := r.write(n, m); err != nil {
		return clause.Expr{}, err
	}
	return clause.Expr{SQL: r.sb.String(), Vars: r.vars}, nil
}

func (r *renderer) str(s string) {
	r.sb.WriteString(s)
}

func (r *renderer) bind(v any, t types.Tag) {
	if r.opts.Flavor == Postgres && types.Unwrap(t) == types.String {
		r.str("CAST(? AS TEXT)")
	} else {
		r.str("?")
	}
	r.vars = append(r.vars, v)
}

// isPredicate reports whether n is a condition rather than a value.
func isPredicate(n sqlexpr.Node) bool {
	switch n := n.(type) {
	case *sqlexpr.Binary:
		return n.Op.IsComparison() || n.Op.IsLogical()
	case *sqlexpr.Like, *sqlexpr.NullCompensated:
		return true
	case *sqlexpr.Unary:
		return n.Op != sqlexpr.OpNegate
	case *sqlexpr.FunctionCall:
		return types.Unwrap(n.ReturnType) == types.Bool
	}
	return false
}

func (r *renderer) write(n sqlexpr.Node, m mode) error {
	if r.opts.Flavor == Oracle {
		switch pred := isPredicate(n); {
		case m == predicateMode && !pred:
			return r.oracleTruth(n)
		case m == valueMode && pred:
			r.str("CASE WHEN ")
			if err := r.write(n, predicateMode); err != nil {
				return err
			}
			r.str(" THEN 1 ELSE 0 END")
			return nil
		}
	}

	switch n := n.(type) {
	case *sqlexpr.Constant:
		return r.constant(n)
	case *sqlexpr.Parameter:
		return r.parameter(n)
	case *sqlexpr.Column:
		if n.Table != "" {
			r.str(quoteIdent(n.Table) + ".")
		}
		r.str(quoteIdent(n.Name))
		return nil
	case *sqlexpr.Fragment:
		r.str(n.Text)
		return nil
	case *sqlexpr.Cast:
		r.str("CAST(")
		if err := r.write(n.Operand, valueMode); err != nil {
			return err
		}
		r.str(" AS " + n.StoreType + ")")
		return nil
	case *sqlexpr.Convert:
		return r.write(n.Operand, m)
	case *sqlexpr.NullCompensated:
		return r.compensated(n)
	case *sqlexpr.Like:
		return r.like(n)
	case *sqlexpr.Case:
		return r.caseExpr(n)
	case *sqlexpr.Binary:
		return r.binary(n)
	case *sqlexpr.Unary:
		return r.unary(n)
	case *sqlexpr.FunctionCall:
		return r.function(n)
	case *sqlexpr.ClientEval:
		return fmt.Errorf("%w: %s", ErrClientEvaluation, n.Description)
	}
	return fmt.Errorf("%w: %T", ErrUnknownNode, n)
}

// oracleTruth turns a boolean value into a condition.
func (r *renderer) oracleTruth(n sqlexpr.Node) error {
	if c, ok := sqlexpr.IsConstant(n); ok {
		if b, ok := c.Value.(bool); ok {
			if b {
				r.str("(1 = 1)")
			} else {
				r.str("(1 = 0)")
			}
			return nil
		}
	}
	r.str("(")
	if err := r.write(n, valueMode); err != nil {
		return err
	}
	r.str(" = 1)")
	return nil
}

func (r *renderer) constant(n *sqlexpr.Constant) error {
	if n.IsNull() {
		r.str("NULL")
		return nil
	}
	if b, ok := n.Value.(bool); ok && r.opts.Flavor == Oracle {
		if b {
			r.str("1")
		} else {
			r.str("0")
		}
		return nil
	}
	r.bind(n.Value, n.ValueType)
	return nil
}

func (r *renderer) parameter(n *sqlexpr.Parameter) error {
	v, ok := r.opts.Params[n.Name]
	if !ok {
		if !r.opts.AllowUnbound {
			return fmt.Errorf("%w: @%s", ErrMissingParameter, n.Name)
		}
		v = Placeholder(n.Name)
	}
	r.bind(v, n.ValueType)
	return nil
}

func (r *renderer) list(nodes []sqlexpr.Node) error {
	for i, a := range nodes {
		if i > 0 {
			r.str(", ")
		}
		if err := r.write(a, valueMode); err != nil {
			return err
		}
	}
	return nil
}

// compensated renders a null-safe equality: NULL operands yield false.
func (r *renderer) compensated(n *sqlexpr.NullCompensated) error {
	eq, ok := n.Operand.(*sqlexpr.Binary)
	if !ok || eq.Op != sqlexpr.OpEqual {
		return r.write(n.Operand, predicateMode)
	}
	r.str("(")
	if err := r.write(eq, predicateMode); err != nil {
		return err
	}
	for _, side := range []sqlexpr.Node{eq.Left, eq.Right} {
		r.str(" AND ")
		if err := r.write(side, valueMode); err != nil {
			return err
		}
		r.str(" IS NOT NULL")
	}
	r.str(")")
	return nil
}

func (r *renderer) like(n *sqlexpr.Like) error {
	r.str("(")
	if err := r.write(n.Subject, valueMode); err != nil {
		return err
	}
	r.str(" LIKE ")
	if err := r.write(n.Pattern, valueMode); err != nil {
		return err
	}
	switch {
	case n.Escape != nil:
		r.str(" ESCAPE ")
		if err := r.write(n.Escape, valueMode); err != nil {
			return err
		}
	case r.opts.Flavor == Postgres:
		// backslash is the default escape in postgres
		r.str(" ESCAPE ''")
	}
	r.str(")")
	return nil
}

func (r *renderer) caseExpr(n *sqlexpr.Case) error {
	r.str("CASE")
	for _, w := range n.Whens {
		r.str(" WHEN ")
		if err := r.write(w.Condition, predicateMode); err != nil {
			return err
		}
		r.str(" THEN ")
		if err := r.write(w.Result, valueMode); err != nil {
			return err
		}
	}
	if n.Else != nil {
		r.str(" ELSE ")
		if err := r.write(n.Else, valueMode); err != nil {
			return err
		}
	}
	r.str(" END")
	return nil
}

func (r *renderer) binary(n *sqlexpr.Binary) error {
	if n.Op == sqlexpr.OpModulo && r.opts.Flavor == Oracle {
		r.str("MOD(")
		if err := r.list([]sqlexpr.Node{n.Left, n.Right}); err != nil {
			return err
		}
		r.str(")")
		return nil
	}

	operands := valueMode
	if n.Op.IsLogical() {
		operands = predicateMode
	}
	r.str("(")
	if err := r.write(n.Left, operands); err != nil {
		return err
	}
	r.str(" " + string(n.Op) + " ")
	if err := r.write(n.Right, operands); err != nil {
		return err
	}
	r.str(")")
	return nil
}

func (r *renderer) unary(n *sqlexpr.Unary) error {
	switch n.Op {
	case sqlexpr.OpNot:
		r.str("(NOT ")
		if err := r.write(n.Operand, predicateMode); err != nil {
			return err
		}
		r.str(")")
	case sqlexpr.OpNegate:
		r.str("(-")
		if err := r.write(n.Operand, valueMode); err != nil {
			return err
		}
		r.str(")")
	default:
		r.str("(")
		if err := r.write(n.Operand, valueMode); err != nil {
			return err
		}
		r.str(" " + string(n.Op) + ")")
	}
	return nil
}

func (r *renderer) function(n *sqlexpr.FunctionCall) error {
	if !r.opts.Flavor.supports(n.Name) {
		return fmt.Errorf("%w: %s in %s", ErrUnsupportedFunction, n.Name, r.opts.Flavor)
	}

	name, args := n.Name, n.Args
	switch {
	case name == "EXTRACT" && len(args) == 2:
		part, ok := args[0].(*sqlexpr.Fragment)
		if !ok {
			return fmt.Errorf("%w: EXTRACT part must be a fragment", ErrUnknownNode)
		}
		r.str("EXTRACT(" + part.Text + " FROM ")
		if err := r.write(args[1], valueMode); err != nil {
			return err
		}
		r.str(")")
		return nil
	case r.opts.Flavor == Postgres && name == "INSTR":
		name = "STRPOS"
	case r.opts.Flavor == Postgres && name == "SUBSTR" && len(args) == 2:
		// postgres counts a negative start from before the first character
		if neg, ok := args[1].(*sqlexpr.Unary); ok && neg.Op == sqlexpr.OpNegate {
			name, args = "RIGHT", []sqlexpr.Node{args[0], neg.Operand}
		}
	}

	r.str(name + "(")
	if err := r.list(args); err != nil {
		return err
	}
	r.str(")")
	return nil
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
