package rules

import (
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Builtins returns the ordered rule list every provider starts from.
func Builtins(cfg Config) []translate.Entry {
	var out []translate.Entry
	out = append(out, stringRules(cfg)...)
	out = append(out, likeRules()...)
	out = append(out, trimRules()...)
	out = append(out, convertRules(cfg.Convert)...)
	out = append(out, toStringRules(cfg.ToString)...)
	out = append(out, dateMemberRules(cfg)...)
	out = append(out, dateAddRules()...)
	out = append(out, dateDiffRules(cfg)...)
	out = append(out, mathRules(cfg.Math)...)
	out = append(out, unsupportedToString())
	return out
}

// likeRules translates DbFunctions.Like with and without an escape character.
func likeRules() []translate.Entry {
	return []translate.Entry{
		entry("DbFunctions.Like",
			[]translate.Key{translate.CallKey(types.DbFunctions, "Like", types.String, types.String)},
			argCount(2),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(sqlexpr.LikeOf(c.Args[0], c.Args[1]))
			}),
		entry("DbFunctions.Like escaped",
			[]translate.Key{translate.CallKey(types.DbFunctions, "Like", types.String, types.String, types.String)},
			argCount(3),
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(sqlexpr.LikeEscaped(c.Args[0], c.Args[1], c.Args[2]))
			}),
	}
}

// Decline builds an entry that claims the given keys and reports them as
// unsupported by the dialect.
func Decline(name string, keys ...translate.Key) translate.Entry {
	return translate.Entry{
		Name: name,
		Keys: keys,
		Translate: func(translate.Site) translate.Result {
			return translate.NotApplicable(translate.ReasonUnsupportedByDialect, name)
		},
	}
}

// Guarded exposes the client-evaluation guard to provider extensions.
func Guarded(name string, keys []translate.Key, match func(translate.Site) bool, fn func(translate.Site) translate.Result) translate.Entry {
	return entry(name, keys, match, fn)
}
