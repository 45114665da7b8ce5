// Package http implements the HTTP handlers of the StudentLens explorer.
// Handlers stay thin: they decode and validate the request, call the
// explorer service and render the result.
//
// # Sessions
//
// POST /api/sessions creates a session and returns its id both in the
// X-Session-ID header and in an HttpOnly cookie. Every /api/session route
// resolves the id from the header first and falls back to the cookie.
//
// # Errors
//
// All failures are written as RFC 7807 problem documents by
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/session/conflict",
//	    "title": "Dataset Not Cleaned",
//	    "status": 409,
//	    "detail": "[SESSION] clean the dataset first: dataset has not been cleaned",
//	    "instance": "/api/session/statistics"
//	}
//
// # Testing
//
// Handler tests use httptest with a testify mock of ExplorerServiceInterface;
// the flow test runs the real service over an in-memory session store.
package http
