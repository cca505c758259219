package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHashFormat means the stored hash is not a bcrypt hash at all.
// Distinct from a mismatch so callers never confuse data corruption with
// a wrong password.
var ErrInvalidHashFormat = errors.New("invalid password hash format")

// HashPassword hashes a plain text password with bcrypt.
// bcrypt salts internally, so two calls with the same input differ.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash with a plaintext password.
// A mismatch is (false, nil); only malformed hashes produce an error.
func VerifyPassword(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
}
