package sqltranslate

import (
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// Site is a call or member-access site presented for translation.
type Site = translate.Site

// CallSite is an invocation of a named method with translated operands.
type CallSite = translate.CallSite

// MemberSite is a property-style read.
type MemberSite = translate.MemberSite

// Result is the outcome of dispatching a site.
type Result = translate.Result

// Reason explains why a site was not translated.
type Reason = translate.Reason

// Entry is one translation rule.
type Entry = translate.Entry

// Key is a declarative dispatch key.
type Key = translate.Key

// Extension is a named group of entries placed before or after the built-in rules.
type Extension = translate.Extension

// Extension positions
const (
	Append  = translate.Append
	Prepend = translate.Prepend
)

// Reasons reported for sites that were not translated
const (
	ReasonNoRule                = translate.ReasonNoRule
	ReasonUnsupportedSourceType = translate.ReasonUnsupportedSourceType
	ReasonMalformedConstant     = translate.ReasonMalformedConstant
	ReasonUnsupportedArgument   = translate.ReasonUnsupportedArgument
	ReasonUntranslatedOperand   = translate.ReasonUntranslatedOperand
	ReasonUnsupportedByDialect  = translate.ReasonUnsupportedByDialect
)

// Dialect names
const (
	Oracle = "oracle"
	XuGu   = "xugu"
	SQLite = "sqlite"
)

// CallKey matches exactly one overload of a method.
func CallKey(declaring types.Tag, method string, params ...types.Tag) Key {
	return translate.CallKey(declaring, method, params...)
}

// AnyCall matches every overload of a method.
func AnyCall(declaring types.Tag, method string) Key {
	return translate.AnyCall(declaring, method)
}

// MemberKey matches a member read.
func MemberKey(declaring types.Tag, member string) Key {
	return translate.MemberKey(declaring, member)
}

// Translated wraps a node produced by an extension rule.
func Translated(n sqlexpr.Node) Result {
	return translate.Translated(n)
}

// NotApplicable reports that a matched rule cannot translate its site.
func NotApplicable(reason Reason, detail string) Result {
	return translate.NotApplicable(reason, detail)
}
