// Package sanitizer cleans free-text user input.
//
// Helpers are plain string functions that can be chained with Apply or
// stored as a pipeline with Compose:
//
//	clean := sanitizer.Compose(
//	    sanitizer.RemoveControlChars,
//	    sanitizer.StripHTML,
//	    sanitizer.RemoveExtraWhitespace,
//	)
//
//	name := clean("  <b>Ada</b>\x00 Lovelace ") // "Ada Lovelace"
//
// StripHTML uses a bluemonday strict policy, so the result never contains
// markup. MaskEmail is meant for log lines, not for stored data.
//
// None of the helpers returns an error.
package sanitizer
