package auth

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	DecodeAndValidate(tokenString string, requireRefresh bool) (*TokenClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string, requireRefresh bool) (*TokenClaims, error)

// DecodeAndValidate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) DecodeAndValidate(tokenString string, requireRefresh bool) (*TokenClaims, error) {
	if f == nil {
		return nil, ErrDecode
	}
	return f(tokenString, requireRefresh)
}
