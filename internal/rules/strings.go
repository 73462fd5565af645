package rules

import (
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// stringRules translates instance and static methods of string.
func stringRules(cfg Config) []translate.Entry {
	escaper := likeEscaper(cfg.LikeEscape)
	unary := all(hasReceiver, argCount(1))

	predicateKeys := []translate.Key{
		translate.CallKey(types.String, "Contains", types.String),
		translate.CallKey(types.String, "StartsWith", types.String),
		translate.CallKey(types.String, "EndsWith", types.String),
	}
	emptyPattern := func(site translate.Site) bool {
		c, _ := asCall(site)
		s, ok := constString(c.Arg(0))
		return ok && s == ""
	}
	constPattern := func(site translate.Site) bool {
		c, _ := asCall(site)
		_, ok := constString(c.Arg(0))
		return ok
	}

	return []translate.Entry{
		entry("string.{Contains,StartsWith,EndsWith} empty literal", predicateKeys, all(unary, emptyPattern),
			func(translate.Site) translate.Result {
				return translate.Translated(sqlexpr.ConstOf(true, types.Bool))
			}),

		entry("string.StartsWith literal", predicateKeys[1:2], all(unary, constPattern),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				p, _ := constString(c.Arg(0))
				like := sqlexpr.LikeEscaped(c.Receiver, str(escaper.Replace(p)+"%"), str(cfg.LikeEscape))
				return translate.Translated(sqlexpr.AndAlso(like, prefixCheck(c.Receiver, c.Arg(0), false)))
			}),
		entry("string.StartsWith", predicateKeys[1:2], unary,
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(nullSafeAffix(c.Receiver, c.Arg(0), false))
			}),

		entry("string.EndsWith literal", predicateKeys[2:3], all(unary, constPattern),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				p, _ := constString(c.Arg(0))
				like := sqlexpr.LikeEscaped(c.Receiver, str("%"+escaper.Replace(p)), str(cfg.LikeEscape))
				return translate.Translated(sqlexpr.AndAlso(like, prefixCheck(c.Receiver, c.Arg(0), true)))
			}),
		entry("string.EndsWith", predicateKeys[2:3], unary,
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(nullSafeAffix(c.Receiver, c.Arg(0), true))
			}),

		entry("string.Contains literal", predicateKeys[0:1], all(unary, constPattern),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(instrFound(c.Receiver, c.Arg(0)))
			}),
		entry("string.Contains", predicateKeys[0:1], unary,
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				p := c.Arg(0)
				return translate.Translated(sqlexpr.OrElse(sqlexpr.Equal(p, str("")), instrFound(c.Receiver, p)))
			}),

		entry("string.ToUpper", []translate.Key{translate.CallKey(types.String, "ToUpper")}, hasReceiver,
			unaryFunction("UPPER", types.String)),
		entry("string.ToLower", []translate.Key{translate.CallKey(types.String, "ToLower")}, hasReceiver,
			unaryFunction("LOWER", types.String)),
		entry("string.Length", []translate.Key{translate.MemberKey(types.String, "Length")}, hasReceiver,
			unaryFunction("LENGTH", types.Int32)),

		entry("string.Substring", []translate.Key{
			translate.CallKey(types.String, "Substring", types.Int32),
			translate.CallKey(types.String, "Substring", types.Int32, types.Int32),
		}, hasReceiver, substring),

		entry("string.IndexOf", []translate.Key{translate.CallKey(types.String, "IndexOf", types.String)}, unary, indexOf),

		entry("string.Replace", []translate.Key{translate.CallKey(types.String, "Replace", types.String, types.String)},
			all(hasReceiver, argCount(2)),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(sqlexpr.Fn("REPLACE", types.String, c.Receiver, c.Args[0], c.Args[1]))
			}),

		entry("string.IsNullOrEmpty", []translate.Key{translate.CallKey(types.String, "IsNullOrEmpty", types.String)}, argCount(1),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				s := c.Args[0]
				return translate.Translated(sqlexpr.OrElse(sqlexpr.IsNull(s), sqlexpr.Equal(s, str(""))))
			}),
		entry("string.IsNullOrWhiteSpace", []translate.Key{translate.CallKey(types.String, "IsNullOrWhiteSpace", types.String)}, argCount(1),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				s := c.Args[0]
				trimmed := sqlexpr.Fn("LTRIM", types.String, sqlexpr.Fn("RTRIM", types.String, s))
				return translate.Translated(sqlexpr.OrElse(sqlexpr.IsNull(s), sqlexpr.Equal(trimmed, str(""))))
			}),
		entry("string.Concat", []translate.Key{translate.CallKey(types.String, "Concat", types.String, types.String)}, argCount(2),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(sqlexpr.Concat(c.Args[0], c.Args[1]))
			}),
		entry("string.ToString", []translate.Key{translate.CallKey(types.String, "ToString")}, hasReceiver,
			func(site translate.Site) translate.Result {
				return translate.Translated(site.ReceiverNode())
			}),
	}
}

// nullSafeAffix builds the prefix (or suffix) test for a pattern that is only
// known at execution time:
//
//	p = '' OR (s LIKE p || '%' AND compensate(SUBSTR(s, 1, LENGTH(p)) = p))
//
// LIKE narrows the candidates and may use an index; the SUBSTR comparison
// removes false positives caused by wildcard characters inside p.
func nullSafeAffix(subject, pattern sqlexpr.Node, suffix bool) sqlexpr.Node {
	var likePattern sqlexpr.Node
	if suffix {
		likePattern = sqlexpr.Concat(str("%"), pattern)
	} else {
		likePattern = sqlexpr.Concat(pattern, str("%"))
	}
	return sqlexpr.OrElse(
		sqlexpr.Equal(pattern, str("")),
		sqlexpr.AndAlso(
			sqlexpr.LikeOf(subject, likePattern),
			prefixCheck(subject, pattern, suffix),
		),
	)
}

// prefixCheck compares the leading (or trailing) LENGTH(p) characters of s with p.
func prefixCheck(subject, pattern sqlexpr.Node, suffix bool) sqlexpr.Node {
	length := sqlexpr.Fn("LENGTH", types.Int32, pattern)
	var part sqlexpr.Node
	if suffix {
		part = sqlexpr.Fn("SUBSTR", types.String, subject, sqlexpr.Negate(length))
	} else {
		part = sqlexpr.Fn("SUBSTR", types.String, subject, i32(1), length)
	}
	return sqlexpr.Compensate(sqlexpr.Equal(part, pattern))
}

func instrFound(subject, pattern sqlexpr.Node) sqlexpr.Node {
	return sqlexpr.GreaterThan(sqlexpr.Fn("INSTR", types.Int32, subject, pattern), i32(0))
}

func unaryFunction(name string, ret types.Tag) translateFunc {
	return func(site translate.Site) translate.Result {
		return translate.Translated(sqlexpr.Fn(name, ret, site.ReceiverNode()))
	}
}

// substring shifts the zero-based start to SQL's one-based SUBSTR.
func substring(site translate.Site) translate.Result {
	c, _ := asCall(site)
	if len(c.Args) == 0 {
		return translate.NotApplicable(translate.ReasonUnsupportedArgument, "missing start index")
	}
	args := []sqlexpr.Node{c.Receiver, oneBased(c.Args[0])}
	if len(c.Args) > 1 {
		args = append(args, c.Args[1])
	}
	return translate.Translated(sqlexpr.Fn("SUBSTR", types.String, args...))
}

func oneBased(n sqlexpr.Node) sqlexpr.Node {
	if c, ok := sqlexpr.IsConstant(n); ok {
		switch v := c.Value.(type) {
		case int:
			return i32(v + 1)
		case int32:
			return i32(int(v) + 1)
		case int64:
			return i32(int(v) + 1)
		}
	}
	return sqlexpr.Add(n, i32(1))
}

// indexOf returns the zero-based position, with -1 for no match and 0 for an
// empty pattern.
func indexOf(site translate.Site) translate.Result {
	c, _ := asCall(site)
	p := c.Arg(0)
	if s, ok := constString(p); ok {
		if s == "" {
			return translate.Translated(i32(0))
		}
		return translate.Translated(sqlexpr.Subtract(sqlexpr.Fn("INSTR", types.Int32, c.Receiver, p), i32(1)))
	}
	position := sqlexpr.Subtract(sqlexpr.Fn("INSTR", types.Int32, c.Receiver, p), i32(1))
	return translate.Translated(sqlexpr.CaseOf(
		[]sqlexpr.When{{Condition: sqlexpr.Equal(p, str("")), Result: i32(0)}},
		position,
	))
}
