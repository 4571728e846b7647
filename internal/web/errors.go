package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/internal/mount"
	"github.com/dmitrymomot/volunteerform/internal/signup"
)

var (
	ErrFormNotFound = handler.NewHTTPError(http.StatusNotFound, "form_not_found")
	ErrUnknownField = handler.NewHTTPError(http.StatusBadRequest, "unknown_field")
	ErrShuttingDown = handler.NewHTTPError(http.StatusServiceUnavailable, "shutting_down")
)

// httpError attaches an HTTP status to registry and store errors so the
// error handler can classify them. Other errors pass through as 500s.
func httpError(err error) error {
	switch {
	case errors.Is(err, mount.ErrMountNotFound), errors.Is(err, mount.ErrInvalidMountID):
		return fmt.Errorf("%w: %w", ErrFormNotFound, err)
	case errors.Is(err, signup.ErrUnknownField):
		return fmt.Errorf("%w: %w", ErrUnknownField, err)
	case errors.Is(err, mount.ErrRegistryClosed):
		return fmt.Errorf("%w: %w", ErrShuttingDown, err)
	}
	return err
}
