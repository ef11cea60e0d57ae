// Package middleware holds the echo middleware applied to every route:
// rate limiting, CORS, request ids, New Relic tracing, request-scoped
// logging, recovery and the global error handler.
package middleware
