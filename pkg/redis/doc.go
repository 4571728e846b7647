// Package redis connects to Redis with go-redis v9.
//
// Connect retries the initial ping so the service can start alongside its
// Redis instance, and Healthcheck returns a probe suitable for
// httpserver.HealthCheckHandler.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
package redis
