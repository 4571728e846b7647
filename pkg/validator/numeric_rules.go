package validator

import "fmt"

// Number covers the integer and float kinds, including named types such as
// time.Duration.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Positive validates that value is greater than zero.
func Positive[T Number](field string, value T) Rule {
	return Rule{
		Check: func() bool { return value > 0 },
		Error: ValidationError{
			Field:             field,
			Message:           "must be greater than zero",
			TranslationKey:    "validation.positive",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// Min validates that value is at least minValue.
func Min[T Number](field string, value, minValue T) Rule {
	return Rule{
		Check: func() bool { return value >= minValue },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %v", minValue),
			TranslationKey: "validation.min",
			TranslationValues: map[string]any{
				"field": field,
				"min":   minValue,
			},
		},
	}
}
