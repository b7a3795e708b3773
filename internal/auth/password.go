package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// MinPasswordLength is the minimum accepted password length for any account.
const MinPasswordLength = 8

// ValidatePassword checks a candidate password against the account policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.NewValidation("password must be at least 8 characters")
	}
	return nil
}

// HashPassword hashes a plaintext password. Costs outside the bcrypt range
// fall back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
