package web

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/volunteerform/pkg/environment"
	"github.com/dmitrymomot/volunteerform/pkg/httpserver"
	"github.com/dmitrymomot/volunteerform/pkg/requestid"
)

// RouterOptions configures Router.
type RouterOptions struct {
	Signup *SignupService

	// Env is attached to every request context. Empty means development.
	Env environment.Environment

	// ReadinessChecks back /healthz. None means the probe only reports ALIVE.
	ReadinessChecks []func(context.Context) error

	Logger *slog.Logger
}

// Router builds the application handler.
//
//	svc := web.NewSignupService(registry, nil, nil, log)
//	srv.Run(ctx, web.Router(web.RouterOptions{Signup: svc, Env: cfg.Env, Logger: log}))
func Router(opts RouterOptions) chi.Router {
	env := opts.Env
	if env == "" {
		env = environment.Development
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		environment.Middleware(env),
	)

	r.Get("/healthz", httpserver.HealthCheckHandler(opts.Logger, opts.ReadinessChecks...))
	if opts.Signup != nil {
		r.Mount("/", opts.Signup.Handle())
	}
	return r
}
