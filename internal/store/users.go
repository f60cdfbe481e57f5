package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is the credential record the auth endpoints read. PasswordHash is a
// bcrypt hash and never leaves this package except for comparison.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

// ErrUserNotFound is returned when no user carries the given email.
var ErrUserNotFound = errors.New("store: user not found")

// UserStore reads user credentials for login.
type UserStore struct {
	db Querier
}

// NewUserStore creates a user store backed by the given querier.
func NewUserStore(db Querier) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail looks up a user by email for credential verification.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, password_hash FROM app_user WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &u, nil
}
