package binder

import "net/http"

// Path binds fields tagged `path:"name"` using extractor, which is usually
// chi.URLParam. Fields without a path tag are left alone so Path composes
// with the body binders.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return ErrBinderNotApplicable
		}
		return bindTagged(v, "path", func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
