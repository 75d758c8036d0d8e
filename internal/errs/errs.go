// Package errs defines the application's HTTP error types.
//
// Every error that reaches the global error handler is normalized into an
// *HTTPError before it is written to the client, either as the JSON shape
// below or as an HTML error page.
package errs
