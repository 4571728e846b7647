// Package logger builds *slog.Logger values from functional options and adds
// helpers for consistent attribute naming.
//
// New creates a text or JSON handler with static attributes. ContextExtractor
// callbacks registered with WithContextExtractors run on every record, for
// example to attach the request id:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Parse(cfg.Env), "volunteerform"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "submission delivered",
//	    logger.Component("signup"),
//	    logger.StatusCode(201),
//	    logger.Duration(elapsed),
//	)
//
// Error returns an empty attribute for a nil error, so it can be passed
// without a nil check.
package logger
