package signup

import (
	"context"

	"github.com/dmitrymomot/volunteerform/pkg/sanitizer"
)

var (
	cleanLine = sanitizer.Compose(
		sanitizer.RemoveControlChars,
		sanitizer.StripHTML,
		sanitizer.RemoveExtraWhitespace,
	)
	cleanText = sanitizer.Compose(
		sanitizer.RemoveControlChars,
		sanitizer.StripHTML,
		sanitizer.TrimLines,
	)
)

// Sanitize returns r with markup and control characters removed from the
// free-text fields and the email normalised. Position and Terms are kept.
func Sanitize(r Record) Record {
	r.Name = cleanLine(r.Name)
	r.Email = sanitizer.NormalizeEmail(r.Email)
	r.Motivation = cleanText(r.Motivation)
	return r
}

// SanitizingSubmitter passes Sanitize(r) to next. The store keeps the raw
// values; only the outbound payload is cleaned.
func SanitizingSubmitter(next Submitter) Submitter {
	return SubmitterFunc(func(ctx context.Context, r Record) error {
		return next.Submit(ctx, Sanitize(r))
	})
}
