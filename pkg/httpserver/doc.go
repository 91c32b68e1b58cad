// Package httpserver wraps net/http with graceful shutdown, functional
// options and probe handlers.
//
// Run binds the listener, runs start hooks and blocks until the context is
// cancelled, SIGINT or SIGTERM arrives, or Shutdown is called. Shutdown uses
// http.Server.Shutdown bounded by the configured timeout, so in-flight
// requests finish and their session writes complete.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	r.Get("/healthz", httpserver.LivenessHandler())
//	r.Get("/readyz", httpserver.ReadinessHandler(log,
//	    httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
package httpserver
