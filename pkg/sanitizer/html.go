package sanitizer

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripHTML removes every tag and returns plain text. Entities produced by
// the policy are unescaped, so "Tom &amp; Jerry" stays "Tom & Jerry".
func StripHTML(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
