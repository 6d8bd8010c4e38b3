// Package auth hashes and checks account passwords.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for new digests.
const DefaultCost = 12

// ErrBadCredentials is returned when the password does not match the digest.
var ErrBadCredentials = errors.New("invalid email or password")

// Hasher creates and checks password digests.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher; cost values bcrypt would reject fall back to DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash returns the bcrypt digest of password.
func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Check compares password with digest. Any mismatch, including an empty or
// malformed digest, is reported as ErrBadCredentials.
func (h Hasher) Check(digest, password string) error {
	if digest == "" {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}
