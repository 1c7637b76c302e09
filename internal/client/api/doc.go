// Package api is the HTTP client of the BuildHub admin REST API.
//
// Client resolves every request against a configurable base URL, attaches
// "Authorization: Bearer <token>" when its TokenSource holds a token, encodes
// JSON or multipart bodies and decodes the { data, message?, pagination? }
// envelope into a Response. Any non-2xx status is returned as *Error.
//
// A 401 response to any request other than /auth/login invokes the
// unauthorized handler once for that response, which the session uses to tear
// itself down and redirect to the login view.
//
// # Errors
//
// Callers can match ErrUnauthorized (401) and ErrUnavailable (transport
// failure) with errors.Is, and extract the server message with errors.As
// into *Error.
package api
