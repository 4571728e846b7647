package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/pkg/binder"
)

type fieldRequest struct {
	Field string `path:"field"`
	Name  string `json:"name" form:"name"`
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func datastarRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.DataStarRequestHeader, "true")
	return req
}

func TestWrap_BindersAndResponse(t *testing.T) {
	t.Parallel()

	h := handler.HandlerFunc[handler.Context, fieldRequest](func(ctx handler.Context, req fieldRequest) handler.Response {
		return handler.Templ(text("<p>" + req.Field + ":" + req.Name + "</p>"))
	})
	path := func(_ *http.Request, name string) string {
		if name == "field" {
			return "name"
		}
		return ""
	}
	wrapped := handler.Wrap(h, handler.WithBinders[handler.Context, fieldRequest](
		binder.Path(path), binder.JSON(), binder.Form(),
	))

	t.Run("form body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Ada"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<p>name:Ada</p>", rec.Body.String())
	})

	t.Run("datastar json body", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrapped(rec, datastarRequest(http.MethodPost, "/", `{"name":"Ada"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "datastar-patch-elements")
		assert.Contains(t, rec.Body.String(), "<p>name:Ada</p>")
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWrap_Decorators(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[handler.Context, fieldRequest] {
		return func(next handler.HandlerFunc[handler.Context, fieldRequest]) handler.HandlerFunc[handler.Context, fieldRequest] {
			return func(ctx handler.Context, req fieldRequest) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.HandlerFunc[handler.Context, fieldRequest](func(handler.Context, fieldRequest) handler.Response {
		order = append(order, "handler")
		return handler.Empty()
	})
	rec := httptest.NewRecorder()
	handler.Wrap(h, handler.WithDecorators(mark("outer"), mark("inner")))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestWrap_NilResponseAndCustomErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	h := handler.HandlerFunc[handler.Context, fieldRequest](func(handler.Context, fieldRequest) handler.Response { return nil })
	rec := httptest.NewRecorder()
	handler.Wrap(h, handler.WithErrorHandler[handler.Context, fieldRequest](func(ctx handler.Context, err error) {
		got = err
		ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
	}))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.ErrorIs(t, got, handler.ErrNilResponse)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headers  map[string]string
		expected bool
	}{
		{name: "datastar header", headers: map[string]string{"Datastar-Request": "true"}, expected: true},
		{name: "sse accept", headers: map[string]string{"Accept": "text/html, text/event-stream"}, expected: true},
		{name: "regular", headers: map[string]string{"Accept": "text/html"}, expected: false},
		{name: "no headers", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, handler.IsDataStar(req))
		})
	}
}

func TestContext_LazySSE(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ctx := handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, ctx.SSE())
	assert.Empty(t, rec.Header().Get("Content-Type"), "no stream headers for regular requests")

	rec = httptest.NewRecorder()
	ctx = handler.NewContext(rec, datastarRequest(http.MethodGet, "/", ""))
	assert.Empty(t, rec.Header().Get("Content-Type"), "stream is opened on first use only")
	require.NotNil(t, ctx.SSE())
	assert.Same(t, ctx.SSE(), ctx.SSE())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestTemplPartial(t *testing.T) {
	t.Parallel()

	resp := handler.TemplPartial(text("<form/>"), text("<html><form/></html>"),
		handler.WithTarget("#signup"),
		handler.WithStatus(http.StatusUnprocessableEntity),
	)

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "<html><form/></html>", rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, datastarRequest(http.MethodPost, "/", "")))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "#signup")
	assert.Contains(t, body, "<form/>")
	assert.NotContains(t, body, "<html>")
}

func TestTemplMulti(t *testing.T) {
	t.Parallel()

	resp := handler.TemplMulti(
		handler.Patch(text("<p id=\"a\">a</p>")),
		handler.Patch(text("<p id=\"b\">b</p>"), handler.WithTarget("#b"), handler.WithPatchMode(handler.PatchInner)),
	)

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, datastarRequest(http.MethodPost, "/", "")))
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "event: datastar-patch-elements"))

	rec = httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, `<p id="a">a</p><p id="b">b</p>`, rec.Body.String())
}

func TestSSE(t *testing.T) {
	t.Parallel()

	resp := handler.SSE(func(stream handler.StreamContext) error {
		if err := stream.SendComponent(text("<p id=\"x\">x</p>")); err != nil {
			return err
		}
		return stream.SendSignals(map[string]any{"submittable": true})
	})

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, datastarRequest(http.MethodPost, "/", "")))
	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"submittable":true`)

	err := resp.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	var httpErr handler.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.JSON(map[string]bool{"submittable": false}).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"submittable":false}}`, rec.Body.String())

	ve := handler.NewValidationError()
	ve.Add("email", "Must be a valid email address")
	rec = httptest.NewRecorder()
	require.NoError(t, handler.JSONError(ve).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"validation_error","message":"validation error: email: Must be a valid email address","details":{"email":["Must be a valid email address"]}}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, handler.JSONError(errors.New("db password leaked")).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.EmptyWithStatus(http.StatusAccepted).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestError(t *testing.T) {
	t.Parallel()

	h := handler.HandlerFunc[handler.Context, fieldRequest](func(handler.Context, fieldRequest) handler.Response {
		return handler.Error(handler.ErrNotFound)
	})
	rec := httptest.NewRecorder()
	handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
