package sqlgen

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFunction is returned when the flavor has no equivalent for a function
	ErrUnsupportedFunction = errors.New("function not supported by flavor")

	// ErrClientEvaluation is returned when the tree still needs client-side evaluation
	ErrClientEvaluation = errors.New("expression requires client evaluation")

	// ErrMissingParameter is returned when a parameter has no bound value
	ErrMissingParameter = errors.New("missing parameter value")

	// ErrUnknownNode is returned for node types the renderer does not know
	ErrUnknownNode = errors.New("unknown expression node")
)

// UnknownFlavorError reports a flavor name that is not supported
type UnknownFlavorError struct {
	Name string
}

func (e *UnknownFlavorError) Error() string {
	return fmt.Sprintf("unknown SQL flavor %q", e.Name)
}
