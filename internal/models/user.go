package models

import "time"

// GoogleAuthPassword is stored in the password column for accounts created
// through Google sign-in. It is a sentinel, not a hash: local password login
// is disabled for these accounts.
const GoogleAuthPassword = "google-auth"

// User represents a user account in the system. One row exists per distinct
// email; rows are never updated or deleted after creation.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash or GoogleAuthPassword, never exposed
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsGoogleAccount reports whether the account was created through Google
// sign-in and therefore has no local password.
func (u User) IsGoogleAccount() bool {
	return u.Password == GoogleAuthPassword
}
