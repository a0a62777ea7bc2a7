package auth

import (
	"errors"
	"fmt"
	"time"
)

// TokenTypeBearer is the only token_type we issue
const TokenTypeBearer = "Bearer"

// IssuedToken is a signed token with its validity window
type IssuedToken struct {
	Token     string
	IssuedAt  int64
	ExpiresAt int64
}

// TokenPair is the login and refresh response body
type TokenPair struct {
	TokenType        string `json:"token_type"`
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	AccessIssuedAt   int64  `json:"access_issued_at"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresAt int64  `json:"refresh_expires_at"`
	RefreshIssuedAt  int64  `json:"refresh_issued_at"`
}

// CreateToken signs a token for subject valid for ttl, starting now
func (ts *TokenService) CreateToken(subject string, ttl time.Duration, refresh bool) (IssuedToken, error) {
	if subject == "" {
		return IssuedToken{}, errors.New("token subject is required")
	}

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		return IssuedToken{}, fmt.Errorf("token ttl must be at least one second, got %s", ttl)
	}

	claims := TokenClaims{
		Subject:   subject,
		IsRefresh: refresh,
		IssuedAt:  ts.now().Unix(),
	}
	claims.ExpiresAt = claims.IssuedAt + seconds

	signed, err := ts.codec.Encode(claims.toMap())
	if err != nil {
		ts.logger.Error("TokenService could not sign token", "kind", claims.Kind(), "error", err)
		return IssuedToken{}, err
	}

	return IssuedToken{
		Token:     signed,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// IssuePair mints an access and a refresh token for subject
func (ts *TokenService) IssuePair(subject string) (*TokenPair, error) {
	access, err := ts.CreateToken(subject, ts.accessTTL, false)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.CreateToken(subject, ts.refreshTTL, true)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		TokenType:        TokenTypeBearer,
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		AccessIssuedAt:   access.IssuedAt,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
		RefreshIssuedAt:  refresh.IssuedAt,
	}, nil
}
