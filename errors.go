package sqltranslate

import (
	"errors"

	"github.com/nlstn/go-sqltranslate/internal/dialect"
	"github.com/nlstn/go-sqltranslate/internal/sqlgen"
	"github.com/nlstn/go-sqltranslate/internal/translate"
)

// Sentinel errors for translation and rendering failures.
// These can be used with errors.Is() for error handling.
var (
	// ErrNotTranslatable matches every *NotTranslatableError.
	ErrNotTranslatable = translate.ErrNotTranslatable

	// ErrUnknownDialect is returned by New for an unregistered dialect name.
	ErrUnknownDialect = dialect.ErrUnknownDialect

	// ErrUnsupportedFunction is returned when a tree calls a function the
	// target database does not provide.
	ErrUnsupportedFunction = sqlgen.ErrUnsupportedFunction

	// ErrClientEvaluation is returned when a tree that still needs client
	// evaluation is rendered.
	ErrClientEvaluation = sqlgen.ErrClientEvaluation

	// ErrMissingParameter is returned when a rendered parameter has no value.
	ErrMissingParameter = sqlgen.ErrMissingParameter

	// ErrNilSite is returned when Translate is called without a site.
	ErrNilSite = errors.New("sqltranslate: site is required")

	// ErrNilDB is returned when a filter is applied without a database handle.
	ErrNilDB = errors.New("sqltranslate: database handle is required")
)

// NotTranslatableError names the site that could not be translated and why.
type NotTranslatableError = translate.NotTranslatableError
