// Package middleware holds the echo middleware shared by every route:
// request IDs, request-scoped logging, New Relic tracing, rate limiting,
// CORS, panic recovery, and the global error handler that turns errors into
// HTML error pages or JSON.
package middleware
