package rules

import (
	"fmt"

	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

type trimSide int

const (
	trimBoth trimSide = iota
	trimLeading
	trimTrailing
)

var trimMethods = []struct {
	method string
	side   trimSide
}{
	{"Trim", trimBoth},
	{"TrimStart", trimLeading},
	{"TrimEnd", trimTrailing},
}

// trimRules translates Trim, TrimStart and TrimEnd. Only whitespace trimming
// is supported: a character set argument must be an empty constant array.
func trimRules() []translate.Entry {
	out := make([]translate.Entry, 0, len(trimMethods))
	for _, m := range trimMethods {
		keys := []translate.Key{
			translate.CallKey(types.String, m.method),
			translate.CallKey(types.String, m.method, types.CharArray),
			translate.CallKey(types.String, m.method, types.Char),
		}
		out = append(out, entry("string."+m.method, keys, hasReceiver, trimmer(m.side)))
	}
	return out
}

func trimmer(side trimSide) translateFunc {
	return func(site translate.Site) translate.Result {
		c, _ := asCall(site)
		if len(c.Args) > 0 {
			if res, ok := checkTrimSet(c); !ok {
				return res
			}
		}

		s := c.Receiver
		switch side {
		case trimLeading:
			return translate.Translated(sqlexpr.Fn("LTRIM", types.String, s))
		case trimTrailing:
			return translate.Translated(sqlexpr.Fn("RTRIM", types.String, s))
		default:
			return translate.Translated(sqlexpr.Fn("LTRIM", types.String, sqlexpr.Fn("RTRIM", types.String, s)))
		}
	}
}

// checkTrimSet accepts only a constant, empty character array.
func checkTrimSet(c *translate.CallSite) (translate.Result, bool) {
	if len(c.ParamTypes) > 0 && types.Unwrap(c.ParamTypes[0]) == types.Char {
		return translate.NotApplicable(translate.ReasonUnsupportedArgument, "trimming a specific character"), false
	}
	k, ok := sqlexpr.IsConstant(c.Args[0])
	if !ok {
		return translate.NotApplicable(translate.ReasonUnsupportedArgument, "character set is not a constant"), false
	}
	switch set := k.Value.(type) {
	case nil:
		return translate.Result{}, true
	case []rune:
		if len(set) == 0 {
			return translate.Result{}, true
		}
		return translate.NotApplicable(translate.ReasonUnsupportedArgument,
			fmt.Sprintf("trimming %d specific characters", len(set))), false
	default:
		return translate.NotApplicable(translate.ReasonMalformedConstant,
			fmt.Sprintf("character set constant has type %T", k.Value)), false
	}
}
