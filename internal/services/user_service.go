package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/auth"
	"bookshelf/internal/models"
)

var (
	// ErrUserNotFound is returned when no account exists for the given
	// email or id.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateAccount is returned when registering an email that already
	// has an account.
	ErrDuplicateAccount = errors.New("account already exists for this email")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	FindOrCreateFromGoogle(ctx context.Context, profile auth.GoogleProfile) (models.User, error)
}

// UserService provides business logic for accounts and credentials.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, firstname, lastname, email, password, photo, created_at"

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetByEmail retrieves a single user by their email. Emails are compared
// exactly as stored.
func (s *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// Register creates a new local account with a hashed password. The hash and
// the insert both complete before Register returns; callers must not respond
// to the client until then.
func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (models.User, error) {
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return models.User{}, ErrDuplicateAccount
	} else if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        uuid.New().String(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hashed,
	}
	if err := s.insert(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies local credentials. It returns ErrUserNotFound for an
// unknown email, and the verification error for a bad or disabled password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if err := auth.VerifyPassword(user, password); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindOrCreateFromGoogle resolves a verified Google profile to an account.
// A new account stores the google-auth sentinel in place of a password. An
// existing account with the same email is reused as-is, whichever way it was
// created: identity is unified purely by email equality.
func (s *UserService) FindOrCreateFromGoogle(ctx context.Context, profile auth.GoogleProfile) (models.User, error) {
	user, err := s.GetByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	user = models.User{
		ID:        uuid.New().String(),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Password:  models.GoogleAuthPassword,
		Photo:     profile.Photo,
	}
	if err := s.insert(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) insert(ctx context.Context, user models.User) error {
	var photo interface{}
	if user.Photo != "" {
		photo = user.Photo
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, firstname, lastname, email, password, photo, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.FirstName, user.LastName, user.Email, user.Password, photo, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var photo sql.NullString
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password, &photo, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	user.Photo = photo.String
	return user, nil
}
