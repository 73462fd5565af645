package rules

import (
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

var mathArity = map[string][2]int{
	"Abs":      {1, 1},
	"Ceiling":  {1, 1},
	"Floor":    {1, 1},
	"Round":    {1, 2},
	"Truncate": {1, 1},
	"Power":    {2, 2},
	"Sqrt":     {1, 1},
	"Sign":     {1, 1},
	"Exp":      {1, 1},
	"Log":      {1, 2},
	"Log10":    {1, 1},
	"Max":      {2, 2},
	"Min":      {2, 2},
}

// mathRules maps static Math methods onto the dialect's numeric functions.
func mathRules(table Table[string]) []translate.Entry {
	var out []translate.Entry
	for _, row := range table.Entries() {
		arity, ok := mathArity[row.Key]
		if !ok {
			continue
		}
		method, fn := row.Key, row.Token
		match := func(site translate.Site) bool {
			c, ok := asCall(site)
			return ok && len(c.Args) >= arity[0] && len(c.Args) <= arity[1]
		}
		out = append(out, entry("Math."+method,
			[]translate.Key{translate.AnyCall(types.Math, method)},
			match,
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				ret := resultType(c.ReturnType, c.Args[0].Type())
				switch {
				case method == "Log10":
					return translate.Translated(sqlexpr.Fn(fn, ret, i32(10), c.Args[0]))
				case method == "Log" && len(c.Args) == 2:
					return translate.Translated(sqlexpr.Fn("LOG", ret, c.Args[1], c.Args[0]))
				}
				return translate.Translated(sqlexpr.Fn(fn, ret, c.Args...))
			}))
	}
	return out
}
