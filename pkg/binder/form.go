package binder

import (
	"fmt"
	"net/http"
)

// DefaultMaxMemory bounds multipart parsing (10 MB).
const DefaultMaxMemory = 10 << 20

// Form binds application/x-www-form-urlencoded and multipart/form-data
// bodies to fields tagged `form:"name"`. Absent keys leave fields untouched,
// which is how an unchecked checkbox arrives. Other content types yield
// ErrBinderNotApplicable.
//
//	type SubmitRequest struct {
//		Name  string `form:"name"`
//		Terms bool   `form:"terms"`
//	}
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		var values map[string][]string

		switch mediaType(r) {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.PostForm
		case "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.MultipartForm.Value
		default:
			return ErrBinderNotApplicable
		}

		return bindTagged(v, "form", func(name string) []string { return values[name] }, ErrFailedToParseForm)
	}
}
