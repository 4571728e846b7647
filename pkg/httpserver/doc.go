// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run blocks until the context is cancelled, SIGINT/SIGTERM is received or
// Shutdown is called. Shutdown first stops the listener and waits for
// in-flight requests, then runs the drain hooks registered with WithDrain.
// Both steps share the shutdown timeout.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithDrain(func(ctx context.Context) error { return registry.Close(ctx) }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler provides liveness ("ALIVE") and readiness ("READY" or
// "NOT_READY") probes.
package httpserver
