package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs claim maps into compact HS256 tokens and verifies them back.
// Time and kind checks live in TokenService.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

// NewCodec returns a Codec keyed by secret
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &Codec{
		secret: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithJSONNumber(),
		),
	}, nil
}

// Encode signs claims. The header is always {"alg":"HS256","typ":"JWT"}.
func (c *Codec) Encode(claims map[string]any) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and only then returns the payload.
func (c *Codec) Decode(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}

	token, err := c.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if !token.Valid {
		return nil, ErrDecode
	}

	return map[string]any(claims), nil
}
