package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// TemplComponent matches templ.Component without importing templ here.
type TemplComponent interface {
	Render(ctx context.Context, w io.Writer) error
}

type templConfig struct {
	status int
	patch  []datastar.PatchElementOption
}

// TemplOption configures how a component is delivered.
type TemplOption func(*templConfig)

// WithTarget sets the CSS selector a Datastar patch is applied to.
func WithTarget(selector string) TemplOption {
	return func(c *templConfig) { c.patch = append(c.patch, datastar.WithSelector(selector)) }
}

// WithPatchMode sets how a Datastar patch is merged into the DOM.
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return func(c *templConfig) { c.patch = append(c.patch, datastar.WithMode(mode)) }
}

// WithStatus sets the status of a plain HTML response. SSE streams always
// answer 200, so Datastar requests ignore it.
func WithStatus(code int) TemplOption {
	return func(c *templConfig) { c.status = code }
}

func newTemplConfig(opts []TemplOption) templConfig {
	cfg := templConfig{status: http.StatusOK}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// TemplPatch is a component with its own delivery options, used by TemplMulti.
type TemplPatch struct {
	Component TemplComponent
	Options   []TemplOption
}

func Patch(component TemplComponent, opts ...TemplOption) TemplPatch {
	return TemplPatch{Component: component, Options: opts}
}

type templResponse struct {
	partial TemplComponent
	full    TemplComponent
	cfg     templConfig
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.partial, t.cfg.patch...)
	}
	return renderHTML(w, r, t.cfg.status, t.full)
}

// Templ renders component as an SSE element patch for Datastar requests and
// as a plain HTML document otherwise.
//
//	return handler.Templ(views.FieldError(field, msg), handler.WithTarget("#email-error"))
func Templ(component TemplComponent, opts ...TemplOption) Response {
	return templResponse{partial: component, full: component, cfg: newTemplConfig(opts)}
}

// TemplPartial patches only partial for Datastar requests and renders full
// for regular ones, so the same handler serves the no-JS fallback.
//
//	return handler.TemplPartial(views.Form(state), views.Page(state),
//		handler.WithStatus(http.StatusUnprocessableEntity),
//	)
func TemplPartial(partial, full TemplComponent, opts ...TemplOption) Response {
	return templResponse{partial: partial, full: full, cfg: newTemplConfig(opts)}
}

type templMultiResponse struct {
	patches []TemplPatch
}

func (t templMultiResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		for _, p := range t.patches {
			if err := sse.PatchElementTempl(p.Component, newTemplConfig(p.Options).patch...); err != nil {
				return err
			}
		}
		return nil
	}

	status := http.StatusOK
	if len(t.patches) > 0 {
		status = newTemplConfig(t.patches[0].Options).status
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, p := range t.patches {
		if err := p.Component.Render(r.Context(), w); err != nil {
			return err
		}
	}
	return nil
}

// TemplMulti sends several patches in one SSE response, or concatenates the
// components for regular requests using the first patch's status.
func TemplMulti(patches ...TemplPatch) Response {
	return templMultiResponse{patches: patches}
}

func renderHTML(w http.ResponseWriter, r *http.Request, status int, c TemplComponent) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return c.Render(r.Context(), w)
}
