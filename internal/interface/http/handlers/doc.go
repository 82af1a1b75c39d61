// Package handlers contains reusable HTTP building blocks: the composite
// health checker and middleware shared by the API router.
//
// # Health Checks
//
// Named checks run in parallel, each under its own timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v1")
//	checker.AddCheck("database", handlers.NewPingCheck(conn))
//	checker.AddCheck("cache", handlers.NewPingCheck(cache))
//
//	status := checker.Check(ctx)
//
// # Middleware
//
// RequestLogger writes one structured line per request and picks up the
// request ID set by chi's RequestID middleware. SecurityHeaders, NoCache and
// RequestSizeLimit are plain func(http.Handler) http.Handler values and can
// be passed to chi's Use.
package handlers
