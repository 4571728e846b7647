package signup

import (
	"fmt"
	"strings"
)

// ResetPolicy selects which fields Submit blanks after capturing the record.
// The error map is never reset.
type ResetPolicy string

const (
	// ResetKeepPosition blanks name, email, motivation and terms and keeps
	// the chosen position, so a volunteer signing up several people keeps
	// their selection.
	ResetKeepPosition ResetPolicy = "keep_position"
	// ResetAll blanks every field.
	ResetAll ResetPolicy = "all"
)

// ParseResetPolicy parses the SIGNUP_RESET_POLICY value. Empty selects
// ResetKeepPosition.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch p := ResetPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ResetKeepPosition, nil
	case ResetKeepPosition, ResetAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidResetPolicy, s, ResetKeepPosition, ResetAll)
}

// UnmarshalText lets the policy be parsed straight from env config.
func (p *ResetPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseResetPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Fields returns the fields the policy resets, in form order.
func (p ResetPolicy) Fields() []Field {
	if p == ResetAll {
		return Fields()
	}
	return []Field{FieldName, FieldEmail, FieldMotivation, FieldTerms}
}
