package auth

import (
	"fmt"
	"time"
)

// TokenService issues and validates stateless session tokens
type TokenService struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	logger     Logger
}

var _ TokenValidator = (*TokenService)(nil)

// TokenServiceOption configures a TokenService
type TokenServiceOption func(*TokenService)

// WithTokenClock replaces time.Now, mostly for tests
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, opts ...TokenServiceOption) (*TokenService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}

	codec, err := NewCodec([]byte(cfg.GetSigningKey()))
	if err != nil {
		return nil, err
	}

	access, refresh := cfg.GetAccessTokenTTL(), cfg.GetRefreshTokenTTL()
	if access < time.Second {
		return nil, fmt.Errorf("%w: access token ttl must be at least one second, got %s", ErrInvalidConfig, access)
	}
	if refresh <= access {
		return nil, fmt.Errorf("%w: refresh token ttl (%s) must exceed access token ttl (%s)", ErrInvalidConfig, refresh, access)
	}

	ts := &TokenService{
		codec:      codec,
		accessTTL:  access,
		refreshTTL: refresh,
		now:        time.Now,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}
	return ts, nil
}

// AccessTTL is the configured access token lifetime
func (ts *TokenService) AccessTTL() time.Duration {
	return ts.accessTTL
}

// RefreshTTL is the configured refresh token lifetime
func (ts *TokenService) RefreshTTL() time.Duration {
	return ts.refreshTTL
}

// DecodeAndValidate checks, in order, signature, kind and time window.
func (ts *TokenService) DecodeAndValidate(tokenString string, requireRefresh bool) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecode)
	}

	raw, err := ts.codec.Decode(tokenString)
	if err != nil {
		ts.logger.Debug("TokenService decode failed", "error", err)
		return nil, err
	}

	claims, err := claimsFromMap(raw)
	if err != nil {
		ts.logger.Debug("TokenService payload has unexpected shape", "error", err)
		return nil, err
	}

	if claims.IsRefresh != requireRefresh {
		if requireRefresh {
			return nil, fmt.Errorf("%w: access token used where refresh token required", ErrTokenKind)
		}
		return nil, fmt.Errorf("%w: refresh token used where access token required", ErrTokenKind)
	}

	if !claims.ValidAt(ts.now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
