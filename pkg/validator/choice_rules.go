package validator

import (
	"fmt"
	"slices"
	"strings"
)

func InListString(field, value string, allowedValues []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowedValues, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %s", strings.Join(allowedValues, ", ")),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowedValues,
			},
		},
	}
}

// Accepted validates that a boolean was explicitly set to true, as with a
// terms-of-use checkbox.
func Accepted(field string, value bool) Rule {
	return Rule{
		Check: func() bool {
			return value
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be accepted",
			TranslationKey: "validation.accepted",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
