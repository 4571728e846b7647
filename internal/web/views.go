package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/pkg/environment"
)

// Element ids shared by the views and the patches sent to the browser.
const (
	FormID           = "signup-form"
	SubmitButtonID   = "signup-submit"
	NoticeID         = "signup-notice"
	ToastContainerID = "toast-container"
)

// DatastarScript is the client bundle the page loads.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// FieldErrorID returns the id of the element that holds f's message.
func FieldErrorID(f signup.Field) string {
	return f.String() + "-error"
}

// FormParams contains data for rendering the signup form.
type FormParams struct {
	MountID     string
	Record      signup.Record
	Errors      signup.ErrorMap
	Submittable bool
	Submitted   bool
}

// PageParams contains data for rendering the full page.
type PageParams struct {
	Title string
	Form  FormParams
}

type FieldErrorParams struct {
	Field   signup.Field
	Message string
}

type SubmitButtonParams struct {
	Disabled bool
}

// Views renders every piece of the widget. Each entry may be replaced to
// restyle the form; DefaultViews provides plain semantic HTML.
type Views struct {
	Page         func(PageParams) templ.Component
	Form         func(FormParams) templ.Component
	FieldError   func(FieldErrorParams) templ.Component
	SubmitButton func(SubmitButtonParams) templ.Component
	ErrorPage    func(handler.ErrorPageParams) templ.Component
	ErrorToast   func(handler.ErrorToastParams) templ.Component
}

func DefaultViews() *Views {
	return &Views{
		Page:         PageView,
		Form:         FormView,
		FieldError:   FieldErrorView,
		SubmitButton: SubmitButtonView,
		ErrorPage:    ErrorPageView,
		ErrorToast:   ErrorToastView,
	}
}

func formParams(id string, st signup.State) FormParams {
	return FormParams{
		MountID:     id,
		Record:      st.Record,
		Errors:      st.Errors,
		Submittable: st.Submittable,
	}
}

func fieldURL(id string, f signup.Field) string {
	return fmt.Sprintf("/signup/%s/fields/%s", id, f)
}

func submitURL(id string) string {
	return fmt.Sprintf("/signup/%s/submit", id)
}

func mountURL(id string) string {
	return "/signup/" + id
}

var esc = templ.EscapeString[string]

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func PageView(p PageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Title
		if title == "" {
			title = "Volunteer signup"
		}
		h := &htmlWriter{w: w}
		h.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if !environment.IsProduction(ctx) {
			h.printf(`<meta name="robots" content="noindex">`)
		}
		h.printf(`<title>%s</title>`, esc(title))
		h.printf(`<script type="module" src="%s"></script>`, esc(DatastarScript))
		h.printf(`</head><body>`)
		h.printf(`<div id="%s" aria-live="polite"></div>`, ToastContainerID)
		h.printf(`<main><h1>%s</h1>`, esc(title))
		h.render(ctx, FormView(p.Form))
		h.printf(`</main></body></html>`)
		return h.err
	})
}

func FormView(p FormParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(p.Record)
		if err != nil {
			return err
		}

		h := &htmlWriter{w: w}
		h.printf(`<form id="%s" method="post" action="%s" novalidate data-signals="%s" data-on:submit="%s" data-on:pagehide__window="%s">`,
			FormID,
			esc(submitURL(p.MountID)),
			esc(string(signals)),
			esc(fmt.Sprintf("@post('%s')", submitURL(p.MountID))),
			esc(fmt.Sprintf("@delete('%s')", mountURL(p.MountID))),
		)
		if p.Submitted {
			h.printf(`<p id="%s" role="status">Thanks for signing up!</p>`, NoticeID)
		}

		for _, f := range signup.Fields() {
			h.printf(`<div class="field">`)
			writeControl(h, p, f)
			h.render(ctx, FieldErrorView(FieldErrorParams{Field: f, Message: p.Errors[f]}))
			h.printf(`</div>`)
		}

		h.render(ctx, SubmitButtonView(SubmitButtonParams{Disabled: !p.Submittable}))
		h.printf(`</form>`)
		return h.err
	})
}

var labels = map[signup.Field]string{
	signup.FieldName:       "Name",
	signup.FieldEmail:      "Email",
	signup.FieldMotivation: "Why would you like to join?",
	signup.FieldPosition:   "Position",
	signup.FieldTerms:      "I agree to the terms of use",
}

func writeControl(h *htmlWriter, p FormParams, f signup.Field) {
	name := f.String()
	onInput := esc(fmt.Sprintf("@post('%s')", fieldURL(p.MountID, f)))
	invalid := ""
	if p.Errors[f] != "" {
		invalid = fmt.Sprintf(` aria-invalid="true" aria-describedby="%s"`, FieldErrorID(f))
	}

	switch f {
	case signup.FieldName, signup.FieldEmail:
		kind := "text"
		if f == signup.FieldEmail {
			kind = "email"
		}
		value := p.Record.Name
		if f == signup.FieldEmail {
			value = p.Record.Email
		}
		h.printf(`<label for="%s">%s</label>`, name, esc(labels[f]))
		h.printf(`<input id="%s" name="%s" type="%s" value="%s" data-bind:%s data-on:input__debounce.250ms="%s"%s>`,
			name, name, kind, esc(value), name, onInput, invalid)
	case signup.FieldMotivation:
		h.printf(`<label for="%s">%s</label>`, name, esc(labels[f]))
		h.printf(`<textarea id="%s" name="%s" rows="4" data-bind:%s data-on:input__debounce.250ms="%s"%s>%s</textarea>`,
			name, name, name, onInput, invalid, esc(p.Record.Motivation))
	case signup.FieldPosition:
		h.printf(`<label for="%s">%s</label>`, name, esc(labels[f]))
		h.printf(`<select id="%s" name="%s" data-bind:%s data-on:change="%s"%s>`, name, name, name, onInput, invalid)
		h.printf(`<option value="">Select a position</option>`)
		for _, pos := range signup.Positions {
			selected := ""
			if pos == p.Record.Position {
				selected = " selected"
			}
			h.printf(`<option value="%s"%s>%s</option>`, esc(pos), selected, esc(pos))
		}
		h.printf(`</select>`)
	case signup.FieldTerms:
		checked := ""
		if p.Record.Terms {
			checked = " checked"
		}
		h.printf(`<input type="hidden" name="%s" value="false">`, name)
		h.printf(`<input id="%s" name="%s" type="checkbox" value="true" data-bind:%s data-on:change="%s"%s%s>`,
			name, name, name, onInput, checked, invalid)
		h.printf(`<label for="%s">%s</label>`, name, esc(labels[f]))
	}
}

// FieldErrorView renders the message holder for one field. The paragraph is
// present only when the message is not empty.
func FieldErrorView(p FieldErrorParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<div id="%s" class="field-error">`, FieldErrorID(p.Field))
		if p.Message != "" {
			h.printf(`<p>%s</p>`, esc(p.Message))
		}
		h.printf(`</div>`)
		return h.err
	})
}

func SubmitButtonView(p SubmitButtonParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		disabled := ""
		if p.Disabled {
			disabled = " disabled"
		}
		_, err := fmt.Fprintf(w, `<button id="%s" type="submit"%s>Submit</button>`, SubmitButtonID, disabled)
		return err
	})
}

func ErrorPageView(p handler.ErrorPageParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%d %s</title></head><body><main>`,
			p.StatusCode, esc(http.StatusText(p.StatusCode)))
		h.printf(`<h1>%s</h1><p>%s</p>`, esc(http.StatusText(p.StatusCode)), esc(p.Error))
		if p.RequestID != "" {
			h.printf(`<p><small>Request ID: <code>%s</code></small></p>`, esc(p.RequestID))
		}
		h.printf(`<p><a href="/">Start over</a></p>`)
		h.printf(`</main></body></html>`)
		return h.err
	})
}

func ErrorToastView(p handler.ErrorToastParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="toast toast-%s" role="alert" data-request-id="%s">%s</div>`,
			esc(p.Type), esc(p.RequestID), esc(p.Message))
		return err
	})
}
