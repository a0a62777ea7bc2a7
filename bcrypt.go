package auth

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost matches the cost the scaffold ships with
const DefaultBcryptCost = 12

// BcryptHasher hashes passwords with bcrypt. Hashing is CPU bound, calls are
// admitted through a bounded slot pool so a burst of logins can not starve
// the rest of the request handlers.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// HasherOption configures a BcryptHasher
type HasherOption func(*BcryptHasher)

// WithHashWorkers sets how many hash operations may run at once
func WithHashWorkers(n int) HasherOption {
	return func(h *BcryptHasher) {
		if n > 0 {
			h.slots = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewPasswordHasher returns a BcryptHasher for the given cost. Costs outside
// bcrypt's supported range are clamped.
func NewPasswordHasher(cost int, opts ...HasherOption) *BcryptHasher {
	h := &BcryptHasher{
		cost:  passwordHashCost(clampCost(cost)),
		slots: semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Cost returns the effective bcrypt cost
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash will generate a self describing password hash
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether password matches hash. A malformed hash, or a
// context cancelled before a slot frees up, is a plain false.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword will generate a password hash with the default cost
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost(DefaultBcryptCost))
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

func clampCost(cost int) int {
	switch {
	case cost == 0:
		return DefaultBcryptCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}
