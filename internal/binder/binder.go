// Package binder turns parsed expressions into SQL expression trees.
//
// Columns and parameters are resolved against a Schema. Every method call
// and member read becomes a translation site, built bottom-up so that each
// site receives already-translated operands.
package binder

import (
	"fmt"
	"strings"

	"github.com/nlstn/go-sqltranslate/internal/exprparse"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Translator dispatches a site. *dialect.Provider and *translate.Dispatcher
// satisfy it.
type Translator interface {
	Translate(site translate.Site) translate.Result
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(site translate.Site) translate.Result

// Translate calls f(site).
func (f TranslatorFunc) Translate(site translate.Site) translate.Result {
	return f(site)
}

// Option configures Bind.
type Option func(*binder)

// WithClientFallback replaces sites that cannot be translated with
// client-evaluation placeholders instead of failing.
func WithClientFallback() Option {
	return func(b *binder) {
		b.clientFallback = true
	}
}

type binder struct {
	schema         *Schema
	tr             Translator
	clientFallback bool
}

// Bind resolves expr against s and translates its sites with tr. A site that
// no rule translates yields a *translate.NotTranslatableError unless client
// fallback is enabled.
func Bind(expr exprparse.Node, s *Schema, tr Translator, opts ...Option) (sqlexpr.Node, error) {
	if s == nil {
		s = NewSchema()
	}
	b := &binder{schema: s, tr: tr}
	for _, opt := range opts {
		opt(b)
	}
	return b.bind(expr)
}

func (b *binder) bind(n exprparse.Node) (sqlexpr.Node, error) {
	switch n := n.(type) {
	case *exprparse.Literal:
		if n.Value == nil {
			return sqlexpr.Null(types.Object), nil
		}
		return sqlexpr.ConstOf(n.Value, n.Type), nil
	case *exprparse.Param:
		t, ok := b.schema.Params[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: @%s", ErrUnknownParameter, n.Name)
		}
		return sqlexpr.Param(n.Name, t), nil
	case *exprparse.Ident:
		if _, ok := b.schema.Tables[n.Name]; ok {
			return nil, fmt.Errorf("%w: table alias %s used as a value", ErrUnsupportedNode, n.Name)
		}
		if _, ok := staticTypes[n.Name]; ok {
			return nil, fmt.Errorf("%w: static type %s used as a value", ErrUnsupportedNode, n.Name)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, n.Name)
	case *exprparse.Member:
		return b.member(n)
	case *exprparse.Call:
		return b.call(n)
	case *exprparse.Unary:
		return b.unary(n)
	case *exprparse.Binary:
		return b.binary(n)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
}

// staticOwner reports the declaring type n names when it is used as the
// owner of a static call or member. Table aliases shadow static names.
func (b *binder) staticOwner(n exprparse.Node) (types.Tag, bool) {
	switch n := n.(type) {
	case *exprparse.Ident:
		if _, ok := b.schema.Tables[n.Name]; ok {
			return types.Invalid, false
		}
		t, ok := staticTypes[n.Name]
		return t, ok
	case *exprparse.Member:
		if id, ok := n.Receiver.(*exprparse.Ident); ok && id.Name == "EF" && n.Name == "Functions" {
			return types.DbFunctions, true
		}
	}
	return types.Invalid, false
}

func (b *binder) member(m *exprparse.Member) (sqlexpr.Node, error) {
	if id, ok := m.Receiver.(*exprparse.Ident); ok {
		if table, ok := b.schema.Tables[id.Name]; ok {
			col, ok := table.Columns[m.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, id.Name, m.Name)
			}
			return sqlexpr.Col(table.Name, col.Name, col.Type), nil
		}
	}

	if owner, ok := b.staticOwner(m.Receiver); ok {
		ret := returnType(owner, m.Name, nil)
		return b.dispatch(translate.NewMemberSite(owner, m.Name, nil, ret), ret)
	}

	recv, err := b.bind(m.Receiver)
	if err != nil {
		return nil, err
	}
	declaring := types.Unwrap(recv.Type())
	ret := returnType(declaring, m.Name, nil)
	return b.dispatch(translate.NewMemberSite(declaring, m.Name, recv, ret), ret)
}

func (b *binder) call(c *exprparse.Call) (sqlexpr.Node, error) {
	args := make([]sqlexpr.Node, len(c.Args))
	params := make([]types.Tag, len(c.Args))
	for i, a := range c.Args {
		arg, err := b.bind(a)
		if err != nil {
			return nil, err
		}
		args[i] = arg
		params[i] = types.Unwrap(arg.Type())
	}

	if owner, ok := b.staticOwner(c.Receiver); ok {
		if owner == types.DbFunctions && strings.HasPrefix(c.Method, "DateDiff") {
			widenDates(args, params)
		}
		ret := returnType(owner, c.Method, args)
		return b.dispatch(translate.NewCallSite(owner, c.Method, params, nil, args, ret), ret)
	}

	recv, err := b.bind(c.Receiver)
	if err != nil {
		return nil, err
	}
	// ToString is declared on the nullable wrapper itself
	declaring := types.Unwrap(recv.Type())
	if c.Method == "ToString" {
		declaring = recv.Type()
	}
	ret := returnType(declaring, c.Method, args)
	return b.dispatch(translate.NewCallSite(declaring, c.Method, params, recv, args, ret), ret)
}

// widenDates converts a date operand to the timestamp type of the other
// operand, selecting the timestamp overload of a two-argument call.
func widenDates(args []sqlexpr.Node, params []types.Tag) {
	if len(args) != 2 {
		return
	}
	for i, other := range []int{1, 0} {
		if params[i] != types.Date || params[other] == types.Date || !params[other].IsTemporal() {
			continue
		}
		target := params[other]
		if args[i].Type().IsNullable() {
			target = types.Nullable(target)
		}
		args[i] = sqlexpr.Implicit(args[i], target)
		params[i] = params[other]
	}
}

func (b *binder) dispatch(site translate.Site, ret types.Tag) (sqlexpr.Node, error) {
	res := b.tr.Translate(site)
	if res.OK() {
		return res.Node(), nil
	}
	if !b.clientFallback {
		return nil, res.Err()
	}
	if ret == types.Invalid {
		ret = types.Object
	}
	return sqlexpr.Client(site.Identity().String(), ret), nil
}

func (b *binder) unary(u *exprparse.Unary) (sqlexpr.Node, error) {
	operand, err := b.bind(u.Operand)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "!":
		return sqlexpr.Not(operand), nil
	case "-":
		return sqlexpr.Negate(operand), nil
	}
	return nil, fmt.Errorf("%w: unary %s", ErrUnsupportedNode, u.Op)
}

var operators = map[string]func(l, r sqlexpr.Node) *sqlexpr.Binary{
	"==": sqlexpr.Equal,
	"!=": sqlexpr.NotEqual,
	"<":  sqlexpr.LessThan,
	"<=": sqlexpr.LessEqual,
	">":  sqlexpr.GreaterThan,
	">=": sqlexpr.GreaterEqual,
	"&&": sqlexpr.AndAlso,
	"||": sqlexpr.OrElse,
	"-":  sqlexpr.Subtract,
	"*":  sqlexpr.Multiply,
	"/":  sqlexpr.Divide,
	"%":  sqlexpr.Modulo,
}

func (b *binder) binary(e *exprparse.Binary) (sqlexpr.Node, error) {
	if e.Op == "==" || e.Op == "!=" {
		if n, ok, err := b.nullCheck(e); ok || err != nil {
			return n, err
		}
	}

	left, err := b.bind(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.bind(e.Right)
	if err != nil {
		return nil, err
	}

	if e.Op == "+" {
		if isText(left) || isText(right) {
			return sqlexpr.Concat(left, right), nil
		}
		return sqlexpr.Add(left, right), nil
	}
	build, ok := operators[e.Op]
	if !ok {
		return nil, fmt.Errorf("%w: operator %s", ErrUnsupportedNode, e.Op)
	}
	return build(left, right), nil
}

// nullCheck rewrites comparisons against the null literal into IS [NOT] NULL.
func (b *binder) nullCheck(e *exprparse.Binary) (sqlexpr.Node, bool, error) {
	operand := e.Left
	switch {
	case isNullLiteral(e.Right):
	case isNullLiteral(e.Left):
		operand = e.Right
	default:
		return nil, false, nil
	}
	n, err := b.bind(operand)
	if err != nil {
		return nil, true, err
	}
	if e.Op == "==" {
		return sqlexpr.IsNull(n), true, nil
	}
	return sqlexpr.IsNotNull(n), true, nil
}

func isNullLiteral(n exprparse.Node) bool {
	l, ok := n.(*exprparse.Literal)
	return ok && l.Value == nil
}

func isText(n sqlexpr.Node) bool {
	t := types.Unwrap(n.Type())
	return t == types.String || t == types.Char
}
