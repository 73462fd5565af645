package sqleval

import "errors"

var (
	ErrUnboundParameter    = errors.New("parameter is not bound")
	ErrUnknownColumn       = errors.New("column is not bound")
	ErrUnsupportedFunction = errors.New("function is not supported by the evaluator")
	ErrUnsupportedValue    = errors.New("value type is not supported")
	ErrTypeMismatch        = errors.New("operand type mismatch")
	ErrInvalidConversion   = errors.New("invalid conversion")
	ErrClientEvaluation    = errors.New("expression requires client evaluation")
	ErrDivisionByZero      = errors.New("division by zero")
)
