package handler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrymomot/volunteerform/pkg/validator"
)

// ValidationError carries per-field messages for a rejected request.
// It is based on url.Values to reuse its multi-value helpers.
type ValidationError url.Values

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "Validation failed"
	}

	parts := make([]string, 0, len(e))
	for field, messages := range e {
		if len(messages) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, messages[0]))
		}
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

func NewValidationError() ValidationError {
	return make(ValidationError)
}

// ValidationErrorFrom converts rule failures from pkg/validator.
// It returns nil when err carries none.
func ValidationErrorFrom(err error) ValidationError {
	errs := validator.ExtractValidationErrors(err)
	if errs == nil {
		return nil
	}
	ve := NewValidationError()
	for _, e := range errs {
		ve.Add(e.Field, e.Message)
	}
	return ve
}

func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message for field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
