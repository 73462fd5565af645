package binder

import "errors"

// Binding errors
var (
	ErrUnknownIdentifier = errors.New("binder: unknown identifier")
	ErrUnknownColumn     = errors.New("binder: unknown column")
	ErrUnknownParameter  = errors.New("binder: unknown parameter")
	ErrUnsupportedNode   = errors.New("binder: unsupported expression")
	ErrInvalidModel      = errors.New("binder: invalid model")
)
