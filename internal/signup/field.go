package signup

import (
	"fmt"
	"slices"
)

// Field names one control of the signup form.
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldMotivation Field = "motivation"
	FieldPosition   Field = "position"
	FieldTerms      Field = "terms"
)

var fields = []Field{FieldName, FieldEmail, FieldMotivation, FieldPosition, FieldTerms}

// Fields returns every field in form order.
func Fields() []Field {
	return slices.Clone(fields)
}

// ParseField maps a control name to its Field.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

func (f Field) Valid() bool {
	return slices.Contains(fields, f)
}

// IsBool reports whether the field holds a checkbox state instead of text.
func (f Field) IsBool() bool {
	return f == FieldTerms
}

func (f Field) String() string {
	return string(f)
}

// Positions are the options offered by the position select, in display order.
// Validation leaves position unconstrained, so any text is stored as given.
var Positions = []string{"Newsletter", "Yard Work", "Administrative Work", "Tabling"}

// Record is the answer set posted to the endpoint. Every key is always
// serialised, including zero values.
type Record struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Motivation string `json:"motivation"`
	Position   string `json:"position"`
	Terms      bool   `json:"terms"`
}

// Get returns the value of f as string or bool.
func (r Record) Get(f Field) (any, error) {
	switch f {
	case FieldName:
		return r.Name, nil
	case FieldEmail:
		return r.Email, nil
	case FieldMotivation:
		return r.Motivation, nil
	case FieldPosition:
		return r.Position, nil
	case FieldTerms:
		return r.Terms, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

func (r *Record) set(f Field, v any) error {
	if f.IsBool() {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrInvalidValue, f, v)
		}
		r.Terms = b
		return nil
	}

	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %s wants string, got %T", ErrInvalidValue, f, v)
	}
	switch f {
	case FieldName:
		r.Name = s
	case FieldEmail:
		r.Email = s
	case FieldMotivation:
		r.Motivation = s
	case FieldPosition:
		r.Position = s
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// ErrorMap holds the current message per field. Every field key is present;
// an empty message means valid or not validated yet.
type ErrorMap map[Field]string

// HasErrors reports whether any field currently shows a message.
func (m ErrorMap) HasErrors() bool {
	for _, msg := range m {
		if msg != "" {
			return true
		}
	}
	return false
}

// Entry pairs a field's value with the message from validating that value.
// Value is a string for text fields and a bool for FieldTerms.
type Entry struct {
	Value any    `json:"value"`
	Error string `json:"error"`
}

// Input is a raw control event. Checked is read for the checkbox field and
// Value for every other field.
type Input struct {
	Value   string
	Checked bool
}

func (in Input) valueFor(f Field) any {
	if f.IsBool() {
		return in.Checked
	}
	return in.Value
}

func blankValue(f Field) any {
	if f.IsBool() {
		return false
	}
	return ""
}
