// Package exprparse parses the method-call expression syntax used by the
// command line tool, such as
//
//	c.Name.StartsWith(@prefix) && Functions.DateDiffDay(o.OrderDate, 2020-03-02) > 30
package exprparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/shopspring/decimal"

	"github.com/nlstn/go-sqltranslate/types"
)

var exprLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "whitespace", Pattern: `\s+`, Action: nil},

		// Date literals must come before numbers
		{Name: "DateTime", Pattern: `\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})?)?`, Action: nil},
		{Name: "Number", Pattern: `\d+(\.\d+)?[mMfFlL]?`, Action: nil},
		{Name: "String", Pattern: `"([^"\\]|\\.)*"`, Action: nil},
		{Name: "Char", Pattern: `'([^'\\]|\\.)'`, Action: nil},

		{Name: "True", Pattern: `\btrue\b`, Action: nil},
		{Name: "False", Pattern: `\bfalse\b`, Action: nil},
		{Name: "Null", Pattern: `\bnull\b`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},

		// Two-character operators before their one-character prefixes
		{Name: "OrOp", Pattern: `\|\|`, Action: nil},
		{Name: "AndOp", Pattern: `&&`, Action: nil},
		{Name: "CmpOp", Pattern: `==|!=|<=|>=|<|>`, Action: nil},
		{Name: "Bang", Pattern: `!`, Action: nil},
		{Name: "Plus", Pattern: `\+`, Action: nil},
		{Name: "Minus", Pattern: `-`, Action: nil},
		{Name: "Star", Pattern: `\*`, Action: nil},
		{Name: "Slash", Pattern: `/`, Action: nil},
		{Name: "Percent", Pattern: `%`, Action: nil},
		{Name: "At", Pattern: `@`, Action: nil},
		{Name: "Dot", Pattern: `\.`, Action: nil},
		{Name: "Comma", Pattern: `,`, Action: nil},
		{Name: "LParen", Pattern: `\(`, Action: nil},
		{Name: "RParen", Pattern: `\)`, Action: nil},
		{Name: "LBracket", Pattern: `\[`, Action: nil},
		{Name: "RBracket", Pattern: `\]`, Action: nil},
	},
})

// pExpr is a chain of || operands.
type pExpr struct {
	Pos   lexer.Position
	Left  *pAnd   `parser:"@@"`
	Right []*pAnd `parser:"( OrOp @@ )*"`
}

type pAnd struct {
	Left  *pCmp   `parser:"@@"`
	Right []*pCmp `parser:"( AndOp @@ )*"`
}

type pCmp struct {
	Left  *pAdd   `parser:"@@"`
	Op    *string `parser:"( @CmpOp"`
	Right *pAdd   `parser:"  @@ )?"`
}

type pAdd struct {
	Left *pMul      `parser:"@@"`
	Rest []*pAddOps `parser:"@@*"`
}

type pAddOps struct {
	Op      string `parser:"@(Plus | Minus)"`
	Operand *pMul  `parser:"@@"`
}

type pMul struct {
	Left *pUnary    `parser:"@@"`
	Rest []*pMulOps `parser:"@@*"`
}

type pMulOps struct {
	Op      string  `parser:"@(Star | Slash | Percent)"`
	Operand *pUnary `parser:"@@"`
}

type pUnary struct {
	Op      *string   `parser:"  ( @(Bang | Minus)"`
	Operand *pUnary   `parser:"    @@ )"`
	Postfix *pPostfix `parser:"| @@"`
}

type pPostfix struct {
	Primary   *pPrimary    `parser:"@@"`
	Selectors []*pSelector `parser:"( Dot @@ )*"`
}

type pSelector struct {
	Name string `parser:"@Ident"`
	Call *pArgs `parser:"@@?"`
}

type pArgs struct {
	Open bool     `parser:"@LParen"`
	Args []*pExpr `parser:"( @@ ( Comma @@ )* )? RParen"`
}

type pPrimary struct {
	Pos      lexer.Position
	DateTime *string `parser:"  @DateTime"`
	Number   *string `parser:"| @Number"`
	String   *string `parser:"| @String"`
	Char     *string `parser:"| @Char"`
	True     bool    `parser:"| @True"`
	False    bool    `parser:"| @False"`
	Null     bool    `parser:"| @Null"`
	Param    *string `parser:"| At @Ident"`
	List     *pList  `parser:"| @@"`
	Ident    *string `parser:"| @Ident"`
	Sub      *pExpr  `parser:"| LParen @@ RParen"`
}

type pList struct {
	Open  bool     `parser:"@LBracket"`
	Items []string `parser:"( @Char ( Comma @Char )* )? RBracket"`
}

var parserInstance = participle.MustBuild[pExpr](
	participle.Lexer(exprLexer),
	participle.Elide("whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a single expression.
func Parse(src string) (Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	parsed, err := parserInstance.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return convertExpr(parsed)
}

func convertExpr(e *pExpr) (Node, error) {
	left, err := convertAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := convertAnd(r)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func convertAnd(a *pAnd) (Node, error) {
	left, err := convertCmp(a.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Right {
		right, err := convertCmp(r)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func convertCmp(c *pCmp) (Node, error) {
	left, err := convertAdd(c.Left)
	if err != nil || c.Op == nil {
		return left, err
	}
	right, err := convertAdd(c.Right)
	if err != nil {
		return nil, err
	}
	return &Binary{Op: *c.Op, Left: left, Right: right}, nil
}

func convertAdd(a *pAdd) (Node, error) {
	left, err := convertMul(a.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		right, err := convertMul(r.Operand)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: r.Op, Left: left, Right: right}
	}
	return left, nil
}

func convertMul(m *pMul) (Node, error) {
	left, err := convertUnary(m.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range m.Rest {
		right, err := convertUnary(r.Operand)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: r.Op, Left: left, Right: right}
	}
	return left, nil
}

func convertUnary(u *pUnary) (Node, error) {
	if u.Op == nil {
		return convertPostfix(u.Postfix)
	}
	operand, err := convertUnary(u.Operand)
	if err != nil {
		return nil, err
	}
	// fold negative numeric literals so that -1 stays a constant
	if lit, ok := operand.(*Literal); ok && *u.Op == "-" {
		if neg, ok := negate(lit); ok {
			return neg, nil
		}
	}
	return &Unary{Op: *u.Op, Operand: operand}, nil
}

func negate(l *Literal) (*Literal, bool) {
	switch v := l.Value.(type) {
	case int32:
		return &Literal{Value: -v, Type: l.Type}, true
	case int64:
		return &Literal{Value: -v, Type: l.Type}, true
	case float32:
		return &Literal{Value: -v, Type: l.Type}, true
	case float64:
		return &Literal{Value: -v, Type: l.Type}, true
	case decimal.Decimal:
		return &Literal{Value: v.Neg(), Type: l.Type}, true
	}
	return nil, false
}

func convertPostfix(p *pPostfix) (Node, error) {
	n, err := convertPrimary(p.Primary)
	if err != nil {
		return nil, err
	}
	for _, s := range p.Selectors {
		if s.Call == nil {
			n = &Member{Receiver: n, Name: s.Name}
			continue
		}
		args := make([]Node, len(s.Call.Args))
		for i, a := range s.Call.Args {
			if args[i], err = convertExpr(a); err != nil {
				return nil, err
			}
		}
		n = &Call{Receiver: n, Method: s.Name, Args: args}
	}
	return n, nil
}

func convertPrimary(p *pPrimary) (Node, error) {
	switch {
	case p.DateTime != nil:
		return parseDateTime(*p.DateTime)
	case p.Number != nil:
		return parseNumber(*p.Number)
	case p.String != nil:
		s, err := strconv.Unquote(*p.String)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: invalid string literal %s", ErrSyntax, p.Pos, *p.String)
		}
		return &Literal{Value: s, Type: types.String}, nil
	case p.Char != nil:
		r, err := unquoteChar(*p.Char)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, p.Pos, err)
		}
		return &Literal{Value: string(r), Type: types.Char}, nil
	case p.True:
		return &Literal{Value: true, Type: types.Bool}, nil
	case p.False:
		return &Literal{Value: false, Type: types.Bool}, nil
	case p.Null:
		return &Literal{Value: nil, Type: types.Object}, nil
	case p.Param != nil:
		return &Param{Name: *p.Param}, nil
	case p.List != nil:
		set := make([]rune, len(p.List.Items))
		for i, item := range p.List.Items {
			r, err := unquoteChar(item)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, p.Pos, err)
			}
			set[i] = r
		}
		return &Literal{Value: set, Type: types.CharArray}, nil
	case p.Ident != nil:
		return &Ident{Name: *p.Ident}, nil
	case p.Sub != nil:
		return convertExpr(p.Sub)
	}
	return nil, fmt.Errorf("%w: %s: empty operand", ErrSyntax, p.Pos)
}

func unquoteChar(s string) (rune, error) {
	v, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
	if err != nil || tail != "" {
		return 0, fmt.Errorf("invalid char literal %s", s)
	}
	return v, nil
}

// parseNumber applies the suffixes m (decimal), f (float32) and L (int64).
// Unsuffixed integers are int32 when they fit; other numbers are float64.
func parseNumber(s string) (*Literal, error) {
	suffix := byte(0)
	if last := s[len(s)-1]; strings.IndexByte("mMfFlL", last) >= 0 {
		suffix = last | 0x20
		s = s[:len(s)-1]
	}

	switch suffix {
	case 'm':
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid decimal %s", ErrSyntax, s)
		}
		return &Literal{Value: d, Type: types.Decimal}, nil
	case 'f':
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid float %s", ErrSyntax, s)
		}
		return &Literal{Value: float32(f), Type: types.Float32}, nil
	}

	if !strings.Contains(s, ".") {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: integer %s out of range", ErrSyntax, s)
		}
		if suffix == 'l' || n > math.MaxInt32 {
			return &Literal{Value: n, Type: types.Int64}, nil
		}
		return &Literal{Value: int32(n), Type: types.Int32}, nil
	}
	if suffix == 'l' {
		return nil, fmt.Errorf("%w: invalid long %s", ErrSyntax, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %s", ErrSyntax, s)
	}
	return &Literal{Value: f, Type: types.Float64}, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// parseDateTime reads a date literal. Literals with an offset are
// datetimeoffset values; all others are datetime values in UTC.
func parseDateTime(s string) (*Literal, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &Literal{Value: t, Type: types.DateTimeOffset}, nil
	}
	if t, err := time.Parse("2006-01-02T15:04Z07:00", s); err == nil {
		return &Literal{Value: t, Type: types.DateTimeOffset}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &Literal{Value: t, Type: types.DateTime}, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid date %s", ErrSyntax, s)
}
