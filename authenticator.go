package auth

import (
	"context"
	"fmt"
)

// CredentialAuthenticator verifies credentials against the user store and
// mints token pairs through the TokenService.
type CredentialAuthenticator struct {
	users        UserStore
	hasher       PasswordHasher
	tokens       *TokenService
	logger       Logger
	activitySink ActivitySink
}

var _ Authenticator = (*CredentialAuthenticator)(nil)

// AuthenticatorOption configures a CredentialAuthenticator
type AuthenticatorOption func(*CredentialAuthenticator)

// WithAuthenticatorLogger sets the logger
func WithAuthenticatorLogger(logger Logger) AuthenticatorOption {
	return func(a *CredentialAuthenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func WithActivitySink(sink ActivitySink) AuthenticatorOption {
	return func(a *CredentialAuthenticator) {
		a.activitySink = normalizeActivitySink(sink)
	}
}

// NewCredentialAuthenticator returns a new CredentialAuthenticator
func NewCredentialAuthenticator(users UserStore, hasher PasswordHasher, tokens *TokenService, opts ...AuthenticatorOption) *CredentialAuthenticator {
	a := &CredentialAuthenticator{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// TokenService returns the TokenService used to mint pairs
func (a *CredentialAuthenticator) TokenService() *TokenService {
	return a.tokens
}

// Login exchanges identifier and password for a token pair.
func (a *CredentialAuthenticator) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	pair, user, err := a.login(ctx, identifier, password)
	if err != nil {
		a.logger.Info("Login failed", "identifier", identifier, "error", err)
		emitActivity(ctx, a.activitySink, a.logger, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Actor:     ActorRef{Type: "unknown"},
			UserID:    userID(user),
			Reason:    failureReason(err),
			Metadata:  map[string]any{"identifier": identifier},
		})
		return nil, err
	}

	emitActivity(ctx, a.activitySink, a.logger, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Actor:     ActorRef{ID: user.ID.String(), Type: "user"},
		UserID:    user.ID.String(),
		Metadata:  map[string]any{"identifier": identifier},
	})
	return pair, nil
}

func (a *CredentialAuthenticator) login(ctx context.Context, identifier, password string) (*TokenPair, *User, error) {
	user, err := a.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, nil, fmt.Errorf("login lookup: %w", err)
	}

	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	if !a.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, user, ErrPasswordMismatch
	}

	pair, err := a.tokens.IssuePair(user.ID.String())
	if err != nil {
		return nil, user, err
	}

	return pair, user, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// not invalidated and stays usable until it expires.
func (a *CredentialAuthenticator) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	pair, subject, err := a.refresh(ctx, refreshToken)
	if err != nil {
		a.logger.Info("Refresh failed", "subject", subject, "error", err)
		emitActivity(ctx, a.activitySink, a.logger, ActivityEvent{
			EventType: ActivityEventRefreshFailure,
			Actor:     ActorRef{Type: "unknown"},
			UserID:    subject,
			Reason:    failureReason(err),
		})
		return nil, err
	}

	emitActivity(ctx, a.activitySink, a.logger, ActivityEvent{
		EventType: ActivityEventRefreshSuccess,
		Actor:     ActorRef{ID: subject, Type: "user"},
		UserID:    subject,
	})
	return pair, nil
}

func (a *CredentialAuthenticator) refresh(ctx context.Context, refreshToken string) (*TokenPair, string, error) {
	claims, err := a.tokens.DecodeAndValidate(refreshToken, true)
	if err != nil {
		return nil, "", err
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, claims.Subject, fmt.Errorf("refresh lookup: %w", err)
	}

	if user == nil {
		return nil, claims.Subject, ErrUserNotFound
	}

	pair, err := a.tokens.IssuePair(user.ID.String())
	if err != nil {
		return nil, claims.Subject, err
	}
	return pair, claims.Subject, nil
}

func userID(u *User) string {
	if u == nil {
		return ""
	}
	return u.ID.String()
}
