// Package handler provides typed HTTP handlers that answer both Datastar and
// plain HTML requests.
//
// A HandlerFunc receives a Context and a request struct filled by binders
// from pkg/binder, and returns a Response. Wrap turns it into an
// http.HandlerFunc:
//
//	r.Post("/signup/{mount}/fields/{field}", handler.Wrap(changeField,
//		handler.WithBinders[handler.Context, FieldRequest](binder.Path(chi.URLParam), binder.JSON()),
//		handler.WithErrorHandler[handler.Context, FieldRequest](errHandler),
//	))
//
// # Responses
//
//	handler.Templ(component)            // SSE patch or HTML page
//	handler.TemplPartial(partial, full) // fragment for Datastar, page otherwise
//	handler.TemplMulti(patches...)      // several patches in one stream
//	handler.SSE(func(StreamContext) error)
//	handler.JSON(v) / handler.JSONError(err)
//	handler.Empty() / handler.EmptyWithStatus(code)
//
// # Errors
//
// Binding and render failures reach the ErrorHandler. NewErrorHandler maps
// ValidationError to 422, HTTPError to its code and binder parse failures to
// 400, and logs the rest as 500 with the request id.
package handler
