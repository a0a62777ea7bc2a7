package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// wire keys
const (
	claimSubject   = "sub"
	claimUserUUID  = "user_uuid"
	claimRefresh   = "refresh"
	claimIssuedAt  = "issued_at"
	claimExpiresAt = "expires_at"
)

// TokenClaims are the validated contents of a session token
type TokenClaims struct {
	Subject   string
	IsRefresh bool
	IssuedAt  int64
	ExpiresAt int64
}

// Issued returns issued_at as a time
func (c TokenClaims) Issued() time.Time {
	return time.Unix(c.IssuedAt, 0)
}

// Expires returns expires_at as a time
func (c TokenClaims) Expires() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Kind is "refresh" or "access"
func (c TokenClaims) Kind() string {
	if c.IsRefresh {
		return "refresh"
	}
	return "access"
}

// ValidAt reports whether t falls inside [issued_at, expires_at]
func (c TokenClaims) ValidAt(t time.Time) bool {
	now := t.Unix()
	return c.IssuedAt <= now && now <= c.ExpiresAt
}

// toMap renders the claims in their wire shape:
// {"sub":{"user_uuid":...},"refresh":...,"issued_at":...,"expires_at":...}
func (c TokenClaims) toMap() map[string]any {
	return map[string]any{
		claimSubject: map[string]any{
			claimUserUUID: c.Subject,
		},
		claimRefresh:   c.IsRefresh,
		claimIssuedAt:  c.IssuedAt,
		claimExpiresAt: c.ExpiresAt,
	}
}

func claimsFromMap(m map[string]any) (*TokenClaims, error) {
	sub, ok := m[claimSubject].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing subject", ErrDecode)
	}

	uid, ok := sub[claimUserUUID].(string)
	if !ok || uid == "" {
		return nil, fmt.Errorf("%w: missing subject user_uuid", ErrDecode)
	}

	refresh, ok := m[claimRefresh].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: missing refresh flag", ErrDecode)
	}

	iat, err := unixClaim(m, claimIssuedAt)
	if err != nil {
		return nil, err
	}

	exp, err := unixClaim(m, claimExpiresAt)
	if err != nil {
		return nil, err
	}

	return &TokenClaims{
		Subject:   uid,
		IsRefresh: refresh,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}

func unixClaim(m map[string]any, key string) (int64, error) {
	switch v := m[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrDecode, key)
		}
		return n, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrDecode, key)
		}
		return int64(v), nil
	case nil:
		return 0, fmt.Errorf("%w: missing %s", ErrDecode, key)
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrDecode, key, v)
	}
}
