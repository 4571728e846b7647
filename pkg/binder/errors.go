package binder

import "errors"

var (
	// ErrBinderNotApplicable is returned when a request does not carry the
	// content a binder handles. handler.Wrap skips such binders.
	ErrBinderNotApplicable = errors.New("binder not applicable")

	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm = errors.New("failed to parse form data")
	ErrFailedToParsePath = errors.New("failed to parse path parameters")
)
