package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-heroes-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityResolver(t *testing.T) {
	clock := newFixedClock(testEpoch)
	ts := newTestTokenService(t, clock)
	subject := uuid.NewString()

	pair, err := ts.IssuePair(subject)
	require.NoError(t, err)

	t.Run("Valid access token", func(t *testing.T) {
		store := new(MockUserStore)
		resolver, err := auth.NewIdentityResolver(pair.AccessToken, ts, store)
		require.NoError(t, err)
		assert.Equal(t, subject, resolver.SubjectID())
		assert.False(t, resolver.Claims().IsRefresh)

		// construction never touches the store
		store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Missing token", func(t *testing.T) {
		_, err := auth.NewIdentityResolver("", ts, new(MockUserStore))
		assert.ErrorIs(t, err, auth.ErrDecode)
	})

	t.Run("Refresh token rejected", func(t *testing.T) {
		_, err := auth.NewIdentityResolver(pair.RefreshToken, ts, new(MockUserStore))
		assert.ErrorIs(t, err, auth.ErrTokenKind)
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		later := newFixedClock(testEpoch.Add(2 * time.Hour))
		_, err := auth.NewIdentityResolver(pair.AccessToken, newTestTokenService(t, later), new(MockUserStore))
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		_, err := auth.NewIdentityResolver("a.b.c", ts, new(MockUserStore))
		assert.ErrorIs(t, err, auth.ErrDecode)
	})

	t.Run("Validator func", func(t *testing.T) {
		validator := auth.TokenValidatorFunc(func(token string, requireRefresh bool) (*auth.TokenClaims, error) {
			assert.False(t, requireRefresh)
			return &auth.TokenClaims{Subject: token}, nil
		})
		resolver, err := auth.NewIdentityResolver("user-9", validator, new(MockUserStore))
		require.NoError(t, err)
		assert.Equal(t, "user-9", resolver.SubjectID())
	})
}

func TestIdentityResolverCurrentUser(t *testing.T) {
	ctx := context.Background()
	clock := newFixedClock(testEpoch)
	ts := newTestTokenService(t, clock)

	user := &auth.User{ID: uuid.New(), Nickname: "alice", Email: "alice@example.com"}
	pair, err := ts.IssuePair(user.ID.String())
	require.NoError(t, err)

	t.Run("Memoizes the user", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("FindByID", ctx, user.ID.String()).Return(user, nil).Once()

		resolver, err := auth.NewIdentityResolver(pair.AccessToken, ts, store)
		require.NoError(t, err)

		first, err := resolver.CurrentUser(ctx)
		require.NoError(t, err)
		second, err := resolver.CurrentUser(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		store.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("Deleted subject", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("FindByID", ctx, user.ID.String()).Return(nil, nil)

		resolver, err := auth.NewIdentityResolver(pair.AccessToken, ts, store)
		require.NoError(t, err)

		_, err = resolver.CurrentUser(ctx)
		assert.ErrorIs(t, err, auth.ErrSubjectNotFound)
		assert.False(t, auth.IsAuthError(err))
	})

	t.Run("Store error is not cached", func(t *testing.T) {
		store := new(MockUserStore)
		boom := errors.New("connection reset")
		store.On("FindByID", ctx, user.ID.String()).Return(nil, boom).Once()
		store.On("FindByID", ctx, user.ID.String()).Return(user, nil).Once()

		resolver, err := auth.NewIdentityResolver(pair.AccessToken, ts, store)
		require.NoError(t, err)

		_, err = resolver.CurrentUser(ctx)
		assert.ErrorIs(t, err, boom)

		got, err := resolver.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Nickname)
		store.AssertExpectations(t)
	})
}
