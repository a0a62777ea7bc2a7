package auth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UserFinder is the slice of the Users repository the provider reads from
type UserFinder interface {
	GetByLogin(ctx context.Context, identifier string) (*User, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)
}

// UserProvider adapts the Users repository to the UserStore contract,
// translating record-not-found into a nil user.
type UserProvider struct {
	store  UserFinder
	logger Logger
}

var _ UserStore = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// FindByIdentifier looks up a user by email or nickname
func (u *UserProvider) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	user, err := u.store.GetByLogin(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		u.logger.Error("UserProvider find by identifier", "error", err)
		return nil, fmt.Errorf("failed to retrieve user by identifier: %w", err)
	}
	return user, nil
}

// FindByID looks up a user by id. Ids that are not UUIDs match nothing.
func (u *UserProvider) FindByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	user, err := u.store.GetByUUID(ctx, uid)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		u.logger.Error("UserProvider find by id", "error", err)
		return nil, fmt.Errorf("failed to retrieve user by id: %w", err)
	}
	return user, nil
}
