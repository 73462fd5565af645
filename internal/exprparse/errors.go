package exprparse

import "errors"

// ErrSyntax is returned for input that is not a valid expression.
var ErrSyntax = errors.New("exprparse: syntax error")
