package auth

import (
	"errors"
	"strings"
)

// ErrDecode is returned for tokens that are malformed, unsigned or carry a bad signature
var ErrDecode = errors.New("could not decode token")

// ErrTokenKind is returned when an access token is used where a refresh token
// is required, or the other way around
var ErrTokenKind = errors.New("token kind mismatch")

// ErrTokenExpired is returned when now falls outside [issued_at, expires_at]
var ErrTokenExpired = errors.New("token expired or not yet valid")

// ErrUserNotFound login identifier or refresh subject is unknown
var ErrUserNotFound = errors.New("user not found")

// ErrPasswordMismatch the password does not match the stored hash
var ErrPasswordMismatch = errors.New("password mismatch")

// ErrSubjectNotFound the token was valid but its subject no longer exists
var ErrSubjectNotFound = errors.New("subject no longer exists")

// ErrEmptySecret signing secret is required
var ErrEmptySecret = errors.New("signing secret must not be empty")

// ErrNoEmptyString password must not be empty
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrInvalidConfig auth configuration failed validation
var ErrInvalidConfig = errors.New("invalid auth configuration")

// ErrUserExists a user with the same email or nickname is already registered
var ErrUserExists = errors.New("user already exists")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

// IsMalformedError will check for tokens we could not decode
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDecode) ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsAuthError reports whether err is a credential or token failure, i.e.
// something the caller should see as a generic authentication failure.
func IsAuthError(err error) bool {
	switch {
	case errors.Is(err, ErrDecode),
		errors.Is(err, ErrTokenKind),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPasswordMismatch):
		return true
	}
	return IsMalformedError(err)
}
