package auth

import (
	"context"
	"fmt"
)

// IdentityResolver binds one bearer token to one request. The token is
// validated when the resolver is built; the user is loaded on first use and
// cached. Not safe for concurrent use.
type IdentityResolver struct {
	claims TokenClaims
	users  UserStore
	user   *User
}

// NewIdentityResolver validates token as an access token. Any failure is a
// rejection of the request.
func NewIdentityResolver(token string, tokens TokenValidator, users UserStore) (*IdentityResolver, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing bearer token", ErrDecode)
	}

	claims, err := tokens.DecodeAndValidate(token, false)
	if err != nil {
		return nil, err
	}

	return &IdentityResolver{
		claims: *claims,
		users:  users,
	}, nil
}

// SubjectID is the user id carried by the token
func (r *IdentityResolver) SubjectID() string {
	return r.claims.Subject
}

// Claims returns the validated token claims
func (r *IdentityResolver) Claims() TokenClaims {
	return r.claims
}

// CurrentUser loads the token subject. A subject that no longer exists is
// ErrSubjectNotFound. Lookup errors are not cached.
func (r *IdentityResolver) CurrentUser(ctx context.Context) (*User, error) {
	if r.user != nil {
		return r.user, nil
	}

	user, err := r.users.FindByID(ctx, r.claims.Subject)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrSubjectNotFound
	}

	r.user = user
	return user, nil
}
