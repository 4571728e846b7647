package signup

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/volunteerform/pkg/validator"
)

const (
	MsgNameRequired       = "Name is a required field"
	MsgEmailRequired      = "Must include email address"
	MsgEmailInvalid       = "Must be a valid email address"
	MsgMotivationRequired = "Must include why you'd like to join"
	MsgTermsRequired      = "Please agree to terms of use"
)

// FieldError is the failure of a single field rule.
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// rules returns the ordered rule chain for f; the first failure is reported.
// Required checks do not trim, so whitespace-only text is accepted.
func rules(f Field, value any) ([]validator.Rule, error) {
	if f.IsBool() {
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants bool, got %T", ErrInvalidValue, f, value)
		}
		return []validator.Rule{
			validator.Accepted(string(f), b).WithMessage(MsgTermsRequired),
		}, nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants string, got %T", ErrInvalidValue, f, value)
	}
	name := string(f)

	switch f {
	case FieldName:
		return []validator.Rule{validator.NonEmpty(name, s).WithMessage(MsgNameRequired)}, nil
	case FieldEmail:
		return []validator.Rule{
			validator.NonEmpty(name, s).WithMessage(MsgEmailRequired),
			validator.OptionalEmail(name, s).WithMessage(MsgEmailInvalid),
		}, nil
	case FieldMotivation:
		return []validator.Rule{validator.NonEmpty(name, s).WithMessage(MsgMotivationRequired)}, nil
	case FieldPosition:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// ValidateField checks value against the rules of f. It returns nil when the
// value passes, a *FieldError carrying the first failing message otherwise,
// and ErrUnknownField or ErrInvalidValue for calls that can never be valid.
func ValidateField(f Field, value any) error {
	chain, err := rules(f, value)
	if err != nil {
		return err
	}

	var ve validator.ValidationError
	if err := validator.First(chain...); errors.As(err, &ve) {
		return &FieldError{Field: f, Message: ve.Message}
	}
	return nil
}

// ValidateRecord reports whether every field of r passes its rules.
func ValidateRecord(r Record) bool {
	return Validate(r) == nil
}

// Validate checks every field of r and returns all failures, one per field,
// as validator.ValidationErrors.
func Validate(r Record) error {
	var errs validator.ValidationErrors
	for _, f := range fields {
		v, _ := r.Get(f)
		var fe *FieldError
		if err := ValidateField(f, v); errors.As(err, &fe) {
			errs.Add(validator.ValidationError{Field: string(f), Message: fe.Message})
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// messageFor turns a ValidateField result into an ErrorMap message.
func messageFor(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Message, nil
	}
	return "", err
}
