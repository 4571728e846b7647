package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/pkg/binder"
	"github.com/dmitrymomot/volunteerform/pkg/requestid"
	"github.com/dmitrymomot/volunteerform/pkg/validator"
)

func newErrorHandler(buf *bytes.Buffer) handler.ErrorHandler[handler.Context] {
	log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
		ErrorPage: func(p handler.ErrorPageParams) templ.Component {
			return text(fmt.Sprintf("<h1>%d %s</h1><small>%s</small>", p.StatusCode, p.Error, p.RequestID))
		},
		ErrorToast: func(p handler.ErrorToastParams) templ.Component {
			return text(fmt.Sprintf(`<div class="toast %s">%s</div>`, p.Type, p.Message))
		},
	})
}

func TestNewErrorHandler_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		level  string
		body   string
	}{
		{name: "http error", err: handler.ErrNotFound, status: http.StatusNotFound, level: "WARN", body: "404 not_found"},
		{name: "wrapped http error", err: fmt.Errorf("mount abc: %w", handler.ErrNotFound), status: http.StatusNotFound, level: "WARN", body: "not_found"},
		{name: "binder failure", err: fmt.Errorf("%w: bad", binder.ErrFailedToParseJSON), status: http.StatusBadRequest, level: "WARN", body: "bad_request"},
		{name: "validation", err: handler.ValidationErrorFrom(validator.Apply(validator.Accepted("terms", false))), status: http.StatusUnprocessableEntity, level: "WARN", body: "terms"},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError, level: "ERROR", body: "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			req := httptest.NewRequest(http.MethodGet, "/signup/abc", nil)
			req = req.WithContext(requestid.WithContext(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			newErrorHandler(&buf)(handler.NewContext(rec, req), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.Contains(t, rec.Body.String(), "req-1")
			assert.NotContains(t, rec.Body.String(), "boom")
			assert.Contains(t, buf.String(), `"level":"`+tt.level+`"`)
			assert.Contains(t, buf.String(), `"component":"error_handler"`)
		})
	}
}

func TestNewErrorHandler_DataStarToast(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := httptest.NewRecorder()
	req := datastarRequest(http.MethodPost, "/signup/abc/fields/nope", "")

	newErrorHandler(&buf)(handler.NewContext(rec, req), handler.ErrBadRequest)

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "#toast-container")
	assert.Contains(t, body, `toast warning`)
}

func TestNewErrorHandler_FallbackWithoutComponents(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{})(
		handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)),
		handler.ErrNotFound,
	)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	ve := handler.NewValidationError()
	assert.True(t, ve.IsEmpty())
	assert.Equal(t, "Validation failed", ve.Error())

	ve.Add("email", "Must include email address")
	ve.Add("email", "Must be a valid email address")
	assert.True(t, ve.Has("email"))
	assert.False(t, ve.Has("name"))
	assert.Equal(t, "Must include email address", ve.Get("email"))
	assert.Equal(t, "validation error: email: Must include email address", ve.Error())

	assert.Nil(t, handler.ValidationErrorFrom(nil))
	assert.Nil(t, handler.ValidationErrorFrom(errors.New("other")))

	converted := handler.ValidationErrorFrom(validator.Apply(
		validator.NonEmpty("name", "").WithMessage("Name is a required field"),
		validator.Accepted("terms", false).WithMessage("Please agree to terms of use"),
	))
	require.NotNil(t, converted)
	assert.Equal(t, "Name is a required field", converted.Get("name"))
	assert.Equal(t, "Please agree to terms of use", converted.Get("terms"))
}
