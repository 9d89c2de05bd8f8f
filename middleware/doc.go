// Package middleware provides the Fiber middleware a host typically mounts
// around dispatched resources: request-ID tagging, structured request
// logging, panic recovery and Prometheus metrics.
//
// Every piece is independent; use what the host needs:
//
//	app.Use(middleware.RequestID())
//	app.Use(middleware.Logger(logger))
//	app.Use(middleware.Recover(logger))
//	app.Use(middleware.Metrics())
//	app.Get("/metrics", middleware.MetricsHandler())
package middleware
