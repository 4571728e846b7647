package main

import (
	"context"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/volunteerform/handler"
	"github.com/dmitrymomot/volunteerform/internal/mount"
	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/internal/web"
	"github.com/dmitrymomot/volunteerform/pkg/config"
	"github.com/dmitrymomot/volunteerform/pkg/environment"
	"github.com/dmitrymomot/volunteerform/pkg/httpserver"
	"github.com/dmitrymomot/volunteerform/pkg/logger"
	"github.com/dmitrymomot/volunteerform/pkg/redis"
	"github.com/dmitrymomot/volunteerform/pkg/requestid"
	"github.com/dmitrymomot/volunteerform/pkg/webhook"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, env, log); err != nil {
		log.Error("application stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, env environment.Environment, log *slog.Logger) error {
	var submitter signup.Submitter = signup.NewWebhookSubmitter(
		webhook.NewSender(),
		cfg.SignupEndpoint,
		cfg.SignupTimeout,
		log.With(logger.Component("submitter")),
	)
	if cfg.Sanitize {
		submitter = signup.SanitizingSubmitter(submitter)
	}

	var (
		client goredis.UniversalClient
		checks []func(context.Context) error
	)
	if cfg.Mount.Backend == mount.BackendRedis {
		c, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer c.Close()
		client = c
		checks = append(checks, redis.Healthcheck(c))
	}

	registry, err := mount.NewFromConfig(cfg.Mount, client,
		mount.WithLogger(log.With(logger.Component("mount"))),
		mount.WithStoreOptions(
			signup.WithSubmitter(submitter),
			signup.WithResetPolicy(cfg.ResetPolicy),
			signup.WithLogger(log.With(logger.Component("signup"))),
		),
	)
	if err != nil {
		return err
	}

	views := web.DefaultViews()
	errorHandler := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
		ErrorPage:   views.ErrorPage,
		ErrorToast:  views.ErrorToast,
		ToastTarget: "#" + web.ToastContainerID,
	})
	svc := web.NewSignupService(registry, views, errorHandler, log).WithTitle(cfg.Title)

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log.With(logger.Component("http"))),
		httpserver.WithDrain(registry.Close),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("signup form ready",
				logger.Endpoint(cfg.SignupEndpoint),
				slog.String("reset_policy", string(cfg.ResetPolicy)),
				slog.String("mount_backend", string(cfg.Mount.Backend)),
			)
		}),
	)

	return srv.Run(ctx, web.Router(web.RouterOptions{
		Signup:          svc,
		Env:             env,
		ReadinessChecks: checks,
		Logger:          log,
	}))
}
