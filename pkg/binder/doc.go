// Package binder decodes HTTP requests into typed structs for handler.Wrap.
//
// JSON reads application/json bodies, which is how Datastar posts signals.
// Form reads urlencoded and multipart bodies through `form` tags, and Path
// reads router parameters through `path` tags. A binder that does not apply to
// the request's content type returns ErrBinderNotApplicable, so JSON and Form
// can be registered together on one route:
//
//	r.Post("/signup/{mount}/submit", handler.Wrap(submit,
//		handler.WithBinders[handler.Context, SubmitRequest](
//			binder.Path(chi.URLParam),
//			binder.JSON(),
//			binder.Form(),
//		),
//	))
package binder
