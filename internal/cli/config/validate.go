package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nlstn/go-sqltranslate"
	"github.com/nlstn/go-sqltranslate/types"
)

// ErrInvalidConfig is returned when the merged configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dialect", func(fl validator.FieldLevel) bool {
		return slices.Contains(sqltranslate.Dialects(), fl.Field().String())
	})
	_ = v.RegisterValidation("typetag", func(fl validator.FieldLevel) bool {
		_, err := types.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration and reports every invalid field.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, len(validationErrs))
	for i, e := range validationErrs {
		msgs[i] = e.Namespace() + " " + formatValidationError(e)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "dialect":
		return fmt.Sprintf("must be one of: %s", strings.Join(sqltranslate.Dialects(), " "))
	case "typetag":
		return fmt.Sprintf("has unknown type %q", e.Value())
	default:
		return "is invalid"
	}
}
