// Package sqleval evaluates SQL expression trees in memory with Oracle
// function semantics, ANSI string semantics and three-valued logic. It is the
// reference used to check translated trees without a database.
package sqleval

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Env binds the free names of an expression
type Env struct {
	// Params maps parameter names to values
	Params map[string]any
	// Columns maps "table.column" (or a bare column name) to values
	Columns map[string]any
	// Now is the clock read by SYSDATE-style fragments; time.Now when nil
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Eval evaluates n. SQL NULL is returned as nil; numbers as decimal.Decimal.
func Eval(n sqlexpr.Node, env Env) (any, error) {
	return (&evaluator{env: env}).eval(n)
}

// Holds evaluates a predicate; NULL does not hold.
func Holds(n sqlexpr.Node, env Env) (bool, error) {
	v, err := Eval(n, env)
	if err != nil || v == nil {
		return false, err
	}
	return asBool(v)
}

type evaluator struct {
	env Env
}

func (e *evaluator) eval(n sqlexpr.Node) (any, error) {
	switch n := n.(type) {
	case *sqlexpr.Constant:
		return normalize(n.Value)
	case *sqlexpr.Parameter:
		v, ok := e.env.Params[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: @%s", ErrUnboundParameter, n.Name)
		}
		return normalize(v)
	case *sqlexpr.Column:
		if v, ok := e.env.Columns[n.Table+"."+n.Name]; ok && n.Table != "" {
			return normalize(v)
		}
		if v, ok := e.env.Columns[n.Name]; ok {
			return normalize(v)
		}
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, n.Table, n.Name)
	case *sqlexpr.Fragment:
		return e.fragment(n)
	case *sqlexpr.Cast:
		v, err := e.eval(n.Operand)
		if err != nil || v == nil {
			return nil, err
		}
		return cast(v, n.TargetType)
	case *sqlexpr.Convert:
		return e.eval(n.Operand)
	case *sqlexpr.NullCompensated:
		v, err := e.eval(n.Operand)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return false, nil
		}
		return v, nil
	case *sqlexpr.Like:
		return e.like(n)
	case *sqlexpr.Case:
		for _, w := range n.Whens {
			ok, err := e.holds(w.Condition)
			if err != nil {
				return nil, err
			}
			if ok {
				return e.eval(w.Result)
			}
		}
		if n.Else == nil {
			return nil, nil
		}
		return e.eval(n.Else)
	case *sqlexpr.Binary:
		return e.binary(n)
	case *sqlexpr.Unary:
		return e.unary(n)
	case *sqlexpr.FunctionCall:
		return e.function(n)
	case *sqlexpr.ClientEval:
		return nil, fmt.Errorf("%w: %s", ErrClientEvaluation, n.Description)
	case nil:
		return nil, fmt.Errorf("%w: nil node", ErrUnsupportedValue)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, n)
}

func (e *evaluator) holds(n sqlexpr.Node) (bool, error) {
	v, err := e.eval(n)
	if err != nil || v == nil {
		return false, err
	}
	return asBool(v)
}

func (e *evaluator) fragment(n *sqlexpr.Fragment) (any, error) {
	switch strings.ToLower(n.Text) {
	case "sysdate", "systimestamp", "current_timestamp", "datetime('now', 'localtime')":
		return e.env.now().Local(), nil
	case "sys_extract_utc(systimestamp)", "datetime('now')":
		return e.env.now().UTC(), nil
	}
	return nil, fmt.Errorf("%w: fragment %q", ErrUnsupportedFunction, n.Text)
}

// cast converts a non-null value to the target type.
func cast(v any, target types.Tag) (any, error) {
	t := types.Unwrap(target)
	switch {
	case t.IsIntegral():
		d, err := asNumber(v)
		if err != nil {
			return nil, err
		}
		return d.Round(0), nil
	case t.IsNumeric():
		return asNumber(v)
	case t == types.String || t == types.Char:
		return asString(v)
	case t == types.Bool:
		return asBool(v)
	case t.IsTemporal():
		if s, ok := v.(string); ok {
			parsed, err := time.Parse("2006-01-02 15:04:05", s)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidConversion, s)
			}
			return parsed, nil
		}
		return asTime(v)
	}
	return v, nil
}

func (e *evaluator) like(n *sqlexpr.Like) (any, error) {
	s, err := e.eval(n.Subject)
	if err != nil {
		return nil, err
	}
	p, err := e.eval(n.Pattern)
	if err != nil {
		return nil, err
	}
	var escape any
	if n.Escape != nil {
		if escape, err = e.eval(n.Escape); err != nil {
			return nil, err
		}
		if escape == nil {
			return nil, nil
		}
	}
	if s == nil || p == nil {
		return nil, nil
	}
	subject, err := asString(s)
	if err != nil {
		return nil, err
	}
	pattern, err := asString(p)
	if err != nil {
		return nil, err
	}
	esc := ""
	if escape != nil {
		if esc, err = asString(escape); err != nil {
			return nil, err
		}
	}
	re, err := likePattern(pattern, esc)
	if err != nil {
		return nil, err
	}
	return re.MatchString(subject), nil
}

// likePattern compiles a LIKE pattern into an anchored regular expression.
func likePattern(pattern, escape string) (*regexp.Regexp, error) {
	var esc rune
	if escape != "" {
		r := []rune(escape)
		if len(r) != 1 {
			return nil, fmt.Errorf("%w: escape %q must be one character", ErrInvalidConversion, escape)
		}
		esc = r[0]
	}

	var b strings.Builder
	b.WriteString(`(?s)\A`)
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case escape != "" && r == esc:
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("%w: pattern ends with escape", ErrInvalidConversion)
			}
			i++
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`\z`)
	return regexp.Compile(b.String())
}

func (e *evaluator) binary(n *sqlexpr.Binary) (any, error) {
	if n.Op.IsLogical() {
		return e.logical(n)
	}
	l, err := e.eval(n.Left)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(n.Right)
	if err != nil {
		return nil, err
	}
	if l == nil || r == nil {
		return nil, nil
	}

	if n.Op.IsComparison() {
		c, err := compare(l, r)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case sqlexpr.OpEqual:
			return c == 0, nil
		case sqlexpr.OpNotEqual:
			return c != 0, nil
		case sqlexpr.OpLessThan:
			return c < 0, nil
		case sqlexpr.OpLessEqual:
			return c <= 0, nil
		case sqlexpr.OpGreaterThan:
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	}

	if n.Op == sqlexpr.OpConcat {
		ls, err := asString(l)
		if err != nil {
			return nil, err
		}
		rs, err := asString(r)
		if err != nil {
			return nil, err
		}
		return ls + rs, nil
	}
	return arithmetic(n.Op, l, r)
}

// logical applies three-valued AND/OR.
func (e *evaluator) logical(n *sqlexpr.Binary) (any, error) {
	truth := func(node sqlexpr.Node) (*bool, error) {
		v, err := e.eval(node)
		if err != nil || v == nil {
			return nil, err
		}
		b, err := asBool(v)
		return &b, err
	}
	l, err := truth(n.Left)
	if err != nil {
		return nil, err
	}
	r, err := truth(n.Right)
	if err != nil {
		return nil, err
	}

	decisive := n.Op == sqlexpr.OpOrElse
	if (l != nil && *l == decisive) || (r != nil && *r == decisive) {
		return decisive, nil
	}
	if l == nil || r == nil {
		return nil, nil
	}
	return !decisive, nil
}

func arithmetic(op sqlexpr.BinaryOp, l, r any) (any, error) {
	switch lv := l.(type) {
	case time.Time:
		switch rv := r.(type) {
		case time.Time:
			if op == sqlexpr.OpSubtract {
				return Between(lv, rv), nil
			}
		case Interval:
			switch op {
			case sqlexpr.OpAdd:
				return rv.addTo(lv), nil
			case sqlexpr.OpSubtract:
				return rv.Neg().addTo(lv), nil
			}
		case decimal.Decimal:
			// date arithmetic in days
			switch op {
			case sqlexpr.OpAdd:
				return intervalOf(rv, secondsPerDay).addTo(lv), nil
			case sqlexpr.OpSubtract:
				return intervalOf(rv.Neg(), secondsPerDay).addTo(lv), nil
			}
		}
	case Interval:
		switch rv := r.(type) {
		case Interval:
			switch op {
			case sqlexpr.OpAdd:
				return lv.Add(rv), nil
			case sqlexpr.OpSubtract:
				return lv.Add(rv.Neg()), nil
			}
		case decimal.Decimal:
			switch op {
			case sqlexpr.OpMultiply:
				return Interval{seconds: lv.seconds.Mul(rv)}, nil
			case sqlexpr.OpDivide:
				if rv.IsZero() {
					return nil, ErrDivisionByZero
				}
				return Interval{seconds: lv.seconds.Div(rv)}, nil
			}
		}
	case decimal.Decimal:
		if rv, ok := r.(Interval); ok && op == sqlexpr.OpMultiply {
			return arithmetic(op, rv, lv)
		}
		rv, err := asNumber(r)
		if err != nil {
			return nil, err
		}
		switch op {
		case sqlexpr.OpAdd:
			return lv.Add(rv), nil
		case sqlexpr.OpSubtract:
			return lv.Sub(rv), nil
		case sqlexpr.OpMultiply:
			return lv.Mul(rv), nil
		case sqlexpr.OpDivide:
			if rv.IsZero() {
				return nil, ErrDivisionByZero
			}
			return lv.Div(rv), nil
		case sqlexpr.OpModulo:
			if rv.IsZero() {
				return lv, nil
			}
			return lv.Mod(rv), nil
		}
	}
	return nil, fmt.Errorf("%w: %T %s %T", ErrTypeMismatch, l, op, r)
}

func (e *evaluator) unary(n *sqlexpr.Unary) (any, error) {
	v, err := e.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case sqlexpr.OpIsNull:
		return v == nil, nil
	case sqlexpr.OpIsNotNull:
		return v != nil, nil
	}
	if v == nil {
		return nil, nil
	}
	switch n.Op {
	case sqlexpr.OpNot:
		b, err := asBool(v)
		return !b, err
	case sqlexpr.OpNegate:
		if i, ok := v.(Interval); ok {
			return i.Neg(), nil
		}
		d, err := asNumber(v)
		return d.Neg(), err
	}
	return nil, fmt.Errorf("%w: unary %s", ErrUnsupportedFunction, n.Op)
}
