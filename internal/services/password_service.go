package services

import (
	"errors"
	"fmt"

	"storefront/internal/common"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt hasher; a zero cost means bcrypt.DefaultCost
func NewPasswordHasher(cost int) PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.Validation("password: ensure this value has at most 72 bytes")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
