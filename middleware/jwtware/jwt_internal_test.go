package jwtware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetExtractorsParsesLookup(t *testing.T) {
	require.Len(t, GetExtractors("header:Authorization"), 1)
	require.Len(t, GetExtractors("header:Authorization, query:token ,cookie:jwt,param:id"), 4)
	require.Len(t, GetExtractors("header:Authorization,unknown:thing,broken"), 1)
	require.Empty(t, GetExtractors(""))
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig(Config[string]{
		Resolve: func(token string) (string, error) { return token, nil },
	})

	require.Equal(t, "identity", cfg.ContextKey)
	require.Equal(t, defaultTokenLookup, cfg.TokenLookup)
	require.Equal(t, "Bearer", cfg.AuthScheme)
	require.NotNil(t, cfg.ErrorHandler)
	require.NotNil(t, cfg.SuccessHandler)
}
