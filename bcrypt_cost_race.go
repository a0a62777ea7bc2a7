//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// Race builds are many times slower, keep hashing cheap so the suite fits in its timeouts.
func passwordHashCost(int) int {
	return bcrypt.MinCost
}
