package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
)

// ValidEmail validates that a string is a valid email address using RFC 5322.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmail(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// OptionalEmail is ValidEmail that lets the empty string through, so the
// "missing" and "malformed" cases can carry different messages.
func OptionalEmail(field, value string) Rule {
	rule := ValidEmail(field, value)
	rule.Check = func() bool {
		return value == "" || isEmail(value)
	}
	return rule
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}

	// Display names ("Ada <ada@x.com>") parse fine but are not a bare address.
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	localPart, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || localPart == "" {
		return false
	}

	// Domain must contain at least one dot and cannot start/end with dot
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}

	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}

	return true
}

// ValidURLWithScheme validates that a string is a valid URL with a specific scheme.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			u, err := url.ParseRequestURI(value)
			if err != nil {
				return false
			}
			if u.Host == "" {
				return false
			}
			return slices.Contains(schemes, u.Scheme)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be a valid URL with scheme: %s", strings.Join(schemes, ", ")),
			TranslationKey: "validation.url_scheme",
			TranslationValues: map[string]any{
				"field":   field,
				"schemes": schemes,
			},
		},
	}
}
