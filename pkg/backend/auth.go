package backend

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const passwordPepper = "salty-taskmill"

// bcrypt ignores everything past 72 bytes, the pepper included.
const maxPasswordBytes = 72 - len(passwordPepper)

// ErrPasswordTooLong is returned when a password would be truncated by bcrypt.
var ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)

// HashPassword returns the bcrypt hash of a user password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password+passwordPepper), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+passwordPepper)) == nil
}
