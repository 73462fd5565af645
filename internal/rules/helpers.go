// Package rules holds the leaf translators shared by every provider.
//
// Each rule is a pure function of its site: it either builds a SQL node or
// reports NotApplicable. Dialect tables are captured when the rules are built.
package rules

import (
	"strings"

	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

type translateFunc func(translate.Site) translate.Result

// guarded refuses sites whose operands need client evaluation.
func guarded(fn translateFunc) translateFunc {
	return func(site translate.Site) translate.Result {
		for _, op := range translate.Operands(site) {
			if op == nil || sqlexpr.ContainsClientEval(op) {
				return translate.NotApplicable(translate.ReasonUntranslatedOperand, "")
			}
		}
		return fn(site)
	}
}

// entry builds a keyed entry whose translate function is guarded.
func entry(name string, keys []translate.Key, match func(translate.Site) bool, fn translateFunc) translate.Entry {
	return translate.Entry{Name: name, Keys: keys, Match: match, Translate: guarded(fn)}
}

func asCall(site translate.Site) (*translate.CallSite, bool) {
	c, ok := site.(*translate.CallSite)
	return c, ok
}

func asMember(site translate.Site) (*translate.MemberSite, bool) {
	m, ok := site.(*translate.MemberSite)
	return m, ok
}

// argCount matches calls with exactly n arguments.
func argCount(n int) func(translate.Site) bool {
	return func(site translate.Site) bool {
		c, ok := asCall(site)
		return ok && len(c.Args) == n
	}
}

// hasReceiver matches instance calls and members.
func hasReceiver(site translate.Site) bool {
	return site.ReceiverNode() != nil
}

func all(preds ...func(translate.Site) bool) func(translate.Site) bool {
	return func(site translate.Site) bool {
		for _, p := range preds {
			if !p(site) {
				return false
			}
		}
		return true
	}
}

// constString reports the value of a non-null string constant.
func constString(n sqlexpr.Node) (string, bool) {
	c, ok := sqlexpr.IsConstant(n)
	if !ok {
		return "", false
	}
	s, ok := c.Value.(string)
	return s, ok
}

// resultType prefers the declared return type and falls back to def.
func resultType(declared, def types.Tag) types.Tag {
	if declared == types.Invalid {
		return def
	}
	return declared
}

func str(s string) *sqlexpr.Constant {
	return sqlexpr.ConstOf(s, types.String)
}

func i32(v int) *sqlexpr.Constant {
	return sqlexpr.ConstOf(v, types.Int32)
}

// likeEscaper escapes LIKE wildcards and the escape character itself.
func likeEscaper(escape string) *strings.Replacer {
	return strings.NewReplacer(
		escape, escape+escape,
		"%", escape+"%",
		"_", escape+"_",
	)
}
