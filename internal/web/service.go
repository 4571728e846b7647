package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/internal/mount"
	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/pkg/binder"
	"github.com/dmitrymomot/volunteerform/pkg/logger"
)

// SignupService serves the signup widget: mounting, input events, submit and
// unmount.
type SignupService struct {
	registry     mount.Registry
	views        *Views
	errorHandler handler.ErrorHandler[handler.Context]
	title        string
	log          *slog.Logger
}

// NewSignupService wires the widget to registry. Nil views fall back to
// DefaultViews and a nil error handler to one built from those views.
func NewSignupService(registry mount.Registry, views *Views, errorHandler handler.ErrorHandler[handler.Context], log *slog.Logger) *SignupService {
	if views == nil {
		views = DefaultViews()
	}
	if log == nil {
		log = logger.Discard()
	}
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
			ErrorPage:   views.ErrorPage,
			ErrorToast:  views.ErrorToast,
			ToastTarget: "#" + ToastContainerID,
		})
	}
	return &SignupService{
		registry:     registry,
		views:        views,
		errorHandler: errorHandler,
		log:          log.With(logger.Component("signup")),
	}
}

// WithTitle sets the page heading.
func (s *SignupService) WithTitle(title string) *SignupService {
	s.title = title
	return s
}

func (s *SignupService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.mount,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	r.Route("/signup/{mount}", func(r chi.Router) {
		r.Get("/", handler.Wrap(s.state,
			handler.WithBinders[handler.Context, MountRequest](binder.Path(chi.URLParam)),
		))
		r.Delete("/", handler.Wrap(s.unmount,
			handler.WithBinders[handler.Context, MountRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[handler.Context, MountRequest](s.errorHandler),
		))
		r.Post("/fields/{field}", handler.Wrap(s.change,
			handler.WithBinders[handler.Context, FieldRequest](
				binder.Path(chi.URLParam),
				binder.JSON(), // Datastar signals
				binder.Form(), // no-JS fallback
			),
			handler.WithErrorHandler[handler.Context, FieldRequest](s.errorHandler),
		))
		r.Post("/submit", handler.Wrap(s.submit,
			handler.WithBinders[handler.Context, SubmitRequest](
				binder.Path(chi.URLParam),
				binder.JSON(),
				binder.Form(),
			),
			handler.WithErrorHandler[handler.Context, SubmitRequest](s.errorHandler),
		))
	})

	return r
}

func (s *SignupService) mount(ctx handler.Context, _ struct{}) handler.Response {
	id, store, err := s.registry.Mount(ctx)
	if err != nil {
		return handler.Error(httpError(err))
	}
	return handler.Templ(s.views.Page(PageParams{
		Title: s.title,
		Form:  formParams(id, store.State()),
	}))
}

func (s *SignupService) state(ctx handler.Context, req MountRequest) handler.Response {
	store, err := s.registry.Get(ctx, req.MountID)
	if err != nil {
		return handler.JSONError(httpError(err))
	}
	st := store.State()
	return handler.JSON(StateResponse{
		MountID:     req.MountID,
		Record:      st.Record,
		Errors:      st.Errors,
		Submittable: st.Submittable,
	})
}

func (s *SignupService) unmount(ctx handler.Context, req MountRequest) handler.Response {
	if err := s.registry.Unmount(ctx, req.MountID); err != nil {
		return handler.Error(httpError(err))
	}
	return handler.Empty()
}

// change applies one input event and patches that field's message and the
// submit button.
func (s *SignupService) change(ctx handler.Context, req FieldRequest) handler.Response {
	f, err := signup.ParseField(req.Field)
	if err != nil {
		return handler.Error(httpError(err))
	}
	store, err := s.registry.Get(ctx, req.MountID)
	if err != nil {
		return handler.Error(httpError(err))
	}

	if _, err := store.Change(ctx, f, req.input(f)); err != nil {
		if errors.Is(err, signup.ErrSuperseded) {
			// the newer event answers for this field
			return handler.Empty()
		}
		return handler.Error(httpError(err))
	}

	st := store.State()
	return handler.TemplMulti(
		handler.Patch(s.views.FieldError(FieldErrorParams{Field: f, Message: st.Errors[f]})),
		handler.Patch(s.views.SubmitButton(SubmitButtonParams{Disabled: !st.Submittable})),
	)
}

// submit brings the store in line with the posted values, then submits.
// An invalid form is rendered with every message and 422 for plain posts.
func (s *SignupService) submit(ctx handler.Context, req SubmitRequest) handler.Response {
	store, err := s.registry.Get(ctx, req.MountID)
	if err != nil {
		return handler.Error(httpError(err))
	}

	for _, f := range signup.Fields() {
		if _, err := store.Change(ctx, f, req.input(f)); err != nil && !errors.Is(err, signup.ErrSuperseded) {
			return handler.Error(httpError(err))
		}
	}

	submitted := true
	if _, err := store.Submit(ctx); err != nil {
		if !errors.Is(err, signup.ErrNotSubmittable) {
			return handler.Error(httpError(err))
		}
		submitted = false
		s.log.DebugContext(ctx, "rejected invalid submission", logger.MountID(req.MountID), logger.Event("submit_rejected"))
	}

	params := formParams(req.MountID, store.State())
	params.Submitted = submitted

	if handler.IsDataStar(ctx.Request()) {
		return handler.SSE(func(stream handler.StreamContext) error {
			if err := stream.SendSignals(signalsOf(params.Record)); err != nil {
				return err
			}
			return stream.SendComponent(s.views.Form(params))
		})
	}

	status := http.StatusOK
	if !submitted {
		status = http.StatusUnprocessableEntity
	}
	return handler.Templ(s.views.Page(PageParams{Title: s.title, Form: params}), handler.WithStatus(status))
}

func signalsOf(r signup.Record) map[string]any {
	return map[string]any{
		signup.FieldName.String():       r.Name,
		signup.FieldEmail.String():      r.Email,
		signup.FieldMotivation.String(): r.Motivation,
		signup.FieldPosition.String():   r.Position,
		signup.FieldTerms.String():      r.Terms,
	}
}
