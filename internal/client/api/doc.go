// Package api is the HTTP client used by tyrectl to talk to the tyrekeeper
// REST API.
//
// Client keeps the bearer token returned by Login in memory and attaches it
// to every tyre call. Failures are reported as *Error values carrying the
// HTTP status and the server's error message, or as ErrUnavailable when the
// server could not be reached at all.
//
// Sentinel checks:
//
//	errors.Is(err, ErrUnavailable)  // network failure or timeout
//	errors.Is(err, ErrUnauthorized) // 401 from the server
package api
