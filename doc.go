// Package auth is the authentication core of the heroes backend: password
// hashing, HS256 session tokens (access + refresh pairs), credential login and
// the per-request identity resolution used by protected routes.
//
// Tokens:
//   - TokenService mints and validates stateless tokens. There is no
//     revocation list, a token is valid until its expires_at passes.
//   - Refresh tokens are not rotated. Any holder of a valid refresh token may
//     exchange it for a new pair until it expires.
//
// Identity:
//   - IdentityResolver is built once per request from the bearer token. The
//     token is validated eagerly, the user record is loaded lazily and cached
//     for the lifetime of the resolver.
//   - A valid token whose subject no longer exists yields ErrSubjectNotFound,
//     which the HTTP layer reports as 404 instead of 401.
//
// Activity sinks:
//   - ActivitySink receives login, refresh, registration and password events.
//     Sink errors are logged and never returned to the caller.
package auth
