package translate

import (
	"fmt"

	"github.com/nlstn/go-sqltranslate/sqlexpr"
)

// Reason explains why a site was not translated
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonNoRule: no entry in the registry matched the site
	ReasonNoRule
	// ReasonUnsupportedSourceType: a type-directed table has no entry for the operand type
	ReasonUnsupportedSourceType
	// ReasonMalformedConstant: a constant argument had an unexpected shape
	ReasonMalformedConstant
	// ReasonUnsupportedArgument: the rule recognises the site but not this argument
	ReasonUnsupportedArgument
	// ReasonUntranslatedOperand: an operand requires client evaluation
	ReasonUntranslatedOperand
	// ReasonUnsupportedByDialect: the provider explicitly declines the site
	ReasonUnsupportedByDialect
)

var reasonNames = map[Reason]string{
	ReasonNone:                  "none",
	ReasonNoRule:                "no matching rule",
	ReasonUnsupportedSourceType: "unsupported source type",
	ReasonMalformedConstant:     "malformed constant argument",
	ReasonUnsupportedArgument:   "unsupported argument",
	ReasonUntranslatedOperand:   "operand requires client evaluation",
	ReasonUnsupportedByDialect:  "not supported by dialect",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Result is either Translated(node) or NotApplicable(reason). The zero value
// is NotApplicable with ReasonNone and should not be returned by rules.
type Result struct {
	node   sqlexpr.Node
	reason Reason
	detail string
	site   Identity
}

// Translated wraps a successfully produced node. A nil node is reported as
// ReasonNoRule so that a missing tree is never mistaken for a translation.
func Translated(n sqlexpr.Node) Result {
	if n == nil {
		return Result{reason: ReasonNoRule, detail: "rule produced no node"}
	}
	return Result{node: n}
}

// NotApplicable reports that a rule did not produce a node.
func NotApplicable(reason Reason, detail string) Result {
	if reason == ReasonNone {
		reason = ReasonNoRule
	}
	return Result{reason: reason, detail: detail}
}

// OK reports whether the result carries a node.
func (r Result) OK() bool { return r.node != nil }

// Node returns the translated node, or nil.
func (r Result) Node() sqlexpr.Node { return r.node }

// Reason returns why the site was not translated, or ReasonNone.
func (r Result) Reason() Reason { return r.reason }

// Detail returns the rule's free-form explanation.
func (r Result) Detail() string { return r.detail }

// Site returns the identity of the site the result belongs to.
func (r Result) Site() Identity { return r.site }

// WithSite returns a copy of r carrying the site identity.
func (r Result) WithSite(id Identity) Result {
	r.site = id
	return r
}

// Err returns nil for translated results and a *NotTranslatableError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &NotTranslatableError{Site: r.site, Reason: r.reason, Detail: r.detail}
}

// NotTranslatableError names the site that could not be translated
type NotTranslatableError struct {
	Site   Identity
	Reason Reason
	Detail string
}

func (e *NotTranslatableError) Error() string {
	msg := fmt.Sprintf("cannot translate %s to SQL: %s", e.Site, e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *NotTranslatableError) Is(target error) bool {
	return target == ErrNotTranslatable
}
