// Package client is the HTTP request client every GreenHub feature talks to
// the backend through.
//
// # Overview
//
// A Request names a method, a path relative to a fixed origin, an optional
// JSON body or multipart form, and an optional bearer token. Do always tries
// to decode the response as JSON, whatever the status, because the backend
// reports error details in JSON too. Callers decide success from the status
// code (Response.OK, Response.Err); Do itself only fails when no response
// was received.
//
// # Error Handling
//
// Two failure shapes are distinguishable with errors.As / errors.Is:
//
//   - *TransportError: the server was not reached or did not answer. It
//     matches ErrUnavailable, and ErrTimeout when a deadline fired.
//   - *APIError: the server answered with a non-2xx status. Error() is the
//     server supplied message or a generic fallback. 401 and 403 match
//     ErrUnauthorized.
//
// UserMessage turns either into the text shown to the user.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every request honours the caller's
// context and the client-wide timeout, whichever expires first.
package client
