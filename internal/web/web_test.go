package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/internal/mount"
	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/internal/web"
)

type recordingSubmitter struct {
	mu      sync.Mutex
	records []signup.Record
}

func (r *recordingSubmitter) Submit(_ context.Context, rec signup.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingSubmitter) got() []signup.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]signup.Record(nil), r.records...)
}

type app struct {
	t        *testing.T
	handler  http.Handler
	registry *mount.MemoryRegistry
	sub      *recordingSubmitter
}

func newApp(t *testing.T) *app {
	t.Helper()
	sub := &recordingSubmitter{}
	reg := mount.NewMemoryRegistry(
		mount.WithCleanupInterval(0),
		mount.WithStoreOptions(signup.WithSubmitter(sub)),
	)
	t.Cleanup(func() { _ = reg.Close(context.Background()) })

	svc := web.NewSignupService(reg, nil, nil, nil)
	return &app{
		t:        t,
		handler:  web.Router(web.RouterOptions{Signup: svc}),
		registry: reg,
		sub:      sub,
	}
}

func (a *app) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

var mountIDPattern = regexp.MustCompile(`/signup/([0-9a-f-]{36})/submit`)

// mount loads the page and returns the mount id found in it.
func (a *app) mount() string {
	a.t.Helper()
	rec := a.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(a.t, http.StatusOK, rec.Code)
	m := mountIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(a.t, m, 2)
	return m[1]
}

func (a *app) store(id string) *signup.Store {
	a.t.Helper()
	s, err := a.registry.Get(context.Background(), id)
	require.NoError(a.t, err)
	return s
}

func datastarPost(target string, signals map[string]any) *http.Request {
	body, _ := json.Marshal(signals)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.DataStarRequestHeader, "true")
	return req
}

func formPost(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestMount_RendersBlankForm(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	rec := a.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `<input id="name" name="name" type="text"`)
	assert.Contains(t, body, `<input id="email" name="email" type="email"`)
	assert.Contains(t, body, `<textarea id="motivation"`)
	assert.Contains(t, body, `<select id="position"`)
	assert.Contains(t, body, `<input id="terms" name="terms" type="checkbox"`)
	for _, pos := range signup.Positions {
		assert.Contains(t, body, `<option value="`+pos+`">`+pos+`</option>`)
	}
	assert.Contains(t, body, `<button id="signup-submit" type="submit" disabled>`)
	assert.Contains(t, body, `<div id="email-error" class="field-error"></div>`)
	assert.NotContains(t, body, "<p>")
	assert.Contains(t, body, `data-bind:email`)
	assert.Contains(t, body, `id="toast-container"`)
	assert.Equal(t, 1, a.registry.Len())

	other := a.mount()
	assert.NotEqual(t, mountIDPattern.FindStringSubmatch(body)[1], other)
}

func TestChange_PatchesFieldErrorAndButton(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()

	rec := a.do(datastarPost("/signup/"+id+"/fields/email", map[string]any{"email": "bad"}))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event: datastar-patch-elements")
	assert.Contains(t, body, `<div id="email-error" class="field-error"><p>Must be a valid email address</p></div>`)
	assert.Contains(t, body, `<button id="signup-submit" type="submit" disabled>`)

	st := a.store(id).State()
	assert.Equal(t, "bad", st.Record.Email)
	assert.Equal(t, signup.MsgEmailInvalid, st.Errors[signup.FieldEmail])

	// a fixed value clears the message
	rec = a.do(datastarPost("/signup/"+id+"/fields/email", map[string]any{"email": "ada@x.com"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<div id="email-error" class="field-error"></div>`)
}

func TestChange_EnablesSubmitWhenValid(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()
	signals := map[string]any{"name": "Ada", "email": "ada@x.com", "motivation": "help", "position": "", "terms": true}

	var last *httptest.ResponseRecorder
	for _, f := range []string{"name", "email", "motivation", "terms"} {
		last = a.do(datastarPost("/signup/"+id+"/fields/"+f, signals))
		require.Equal(t, http.StatusOK, last.Code, f)
	}
	assert.Contains(t, last.Body.String(), `<button id="signup-submit" type="submit">`)
	assert.True(t, a.store(id).Submittable())
}

func TestChange_PlainRequestGetsFragments(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()

	rec := a.do(formPost("/signup/"+id+"/fields/name", url.Values{"name": {""}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p>Name is a required field</p>`)
	assert.NotContains(t, rec.Body.String(), "event:")
}

func TestChange_Errors(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signup/"+id+"/fields/age", strings.NewReader(`{"age":3}`))
		req.Header.Set("Content-Type", "application/json")
		rec := a.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown_field")
	})

	t.Run("unknown mount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signup/00000000-0000-0000-0000-000000000000/fields/name", strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := a.do(req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "form_not_found")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signup/"+id+"/fields/name", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		rec := a.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("datastar error becomes a toast", func(t *testing.T) {
		rec := a.do(datastarPost("/signup/"+id+"/fields/age", map[string]any{}))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "event: datastar-patch-elements")
		assert.Contains(t, body, "#toast-container")
		assert.Contains(t, body, "unknown_field")
	})
}

func TestSubmit_Datastar(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()
	signals := map[string]any{"name": "Ada", "email": "ada@x.com", "motivation": "help", "position": "Tabling", "terms": true}

	rec := a.do(datastarPost("/signup/"+id+"/submit", signals))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event: datastar-patch-signals")
	assert.Contains(t, body, `"name":""`)
	assert.Contains(t, body, `"position":"Tabling"`)
	assert.Contains(t, body, `"terms":false`)
	assert.Contains(t, body, `id="signup-form"`)
	assert.Contains(t, body, "Thanks for signing up!")

	s := a.store(id)
	s.Wait()
	require.Len(t, a.sub.got(), 1)
	assert.Equal(t, signup.Record{Name: "Ada", Email: "ada@x.com", Motivation: "help", Position: "Tabling", Terms: true}, a.sub.got()[0])
	assert.Equal(t, signup.Record{Position: "Tabling"}, s.Record())
}

func TestSubmit_PlainForm(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		a := newApp(t)
		id := a.mount()
		rec := a.do(formPost("/signup/"+id+"/submit", url.Values{
			"name":       {"Ada"},
			"email":      {"ada@x.com"},
			"motivation": {"help"},
			"position":   {"Tabling"},
			"terms":      {"false", "true"},
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<!DOCTYPE html>")
		assert.Contains(t, body, "Thanks for signing up!")
		assert.Contains(t, body, `<option value="Tabling" selected>`)
		assert.Contains(t, body, `<input id="name" name="name" type="text" value=""`)

		a.store(id).Wait()
		require.Len(t, a.sub.got(), 1)
		assert.True(t, a.sub.got()[0].Terms)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		a := newApp(t)
		id := a.mount()
		rec := a.do(formPost("/signup/"+id+"/submit", url.Values{
			"name":  {""},
			"email": {"bad"},
			"terms": {"false"},
		}))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, signup.MsgNameRequired)
		assert.Contains(t, body, signup.MsgEmailInvalid)
		assert.Contains(t, body, signup.MsgMotivationRequired)
		assert.Contains(t, body, signup.MsgTermsRequired)
		assert.Contains(t, body, `value="bad"`)
		assert.Contains(t, body, `<button id="signup-submit" type="submit" disabled>`)
		assert.NotContains(t, body, "Thanks for signing up!")

		a.store(id).Wait()
		assert.Empty(t, a.sub.got())
	})
}

func TestState(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()
	a.do(datastarPost("/signup/"+id+"/fields/name", map[string]any{"name": ""}))

	rec := a.do(httptest.NewRequest(http.MethodGet, "/signup/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data web.StateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.Data.MountID)
	assert.Equal(t, signup.MsgNameRequired, resp.Data.Errors[signup.FieldName])
	assert.False(t, resp.Data.Submittable)
}

func TestUnmount(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	id := a.mount()

	rec := a.do(httptest.NewRequest(http.MethodDelete, "/signup/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, a.registry.Len())

	rec = a.do(httptest.NewRequest(http.MethodGet, "/signup/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"form_not_found","message":"form_not_found"}}`, rec.Body.String())

	rec = a.do(httptest.NewRequest(http.MethodDelete, "/signup/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	rec := a.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	failing := web.Router(web.RouterOptions{
		ReadinessChecks: []func(context.Context) error{func(context.Context) error { return context.Canceled }},
	})
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := a.do(req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
