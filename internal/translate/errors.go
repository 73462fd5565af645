package translate

import "errors"

// Dispatch errors
var (
	// ErrNotTranslatable matches every *NotTranslatableError with errors.Is
	ErrNotTranslatable = errors.New("expression cannot be translated to SQL")
)

// Registry construction errors
var (
	// ErrInvalidEntry is returned when an entry cannot take part in dispatch
	ErrInvalidEntry = errors.New("invalid translator entry")
)
