package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"bookshelf/internal/models"
)

var (
	// ErrWrongPassword is returned when the supplied password does not match
	// the stored hash.
	ErrWrongPassword = errors.New("wrong password")

	// ErrLocalLoginDisabled is returned for accounts created through Google
	// sign-in, which store a sentinel instead of a password hash.
	ErrLocalLoginDisabled = errors.New("local login disabled for google account")
)

// HashPassword derives a bcrypt hash from a plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext password against a user's stored
// credential. Google-created accounts never pass verification, whatever the
// input: the sentinel is not a hash and must not reach the bcrypt comparison.
func VerifyPassword(user models.User, password string) error {
	if user.IsGoogleAccount() {
		return ErrLocalLoginDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
