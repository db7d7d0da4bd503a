package domain

import "context"

// User is an account record. The password digest arrives pre-hashed from the
// client and is stored and compared as an opaque string; the service never
// sees plaintext. Users are never deleted.
type User struct {
	Username       string
	PasswordDigest string
	Admin          bool
}

type UserRepository interface {
	// Create stores a new user. Returns a duplicate_username error if the
	// username is already registered; the existing record is left untouched.
	Create(ctx context.Context, user User) error
	// Get returns the user or ErrUserNotFound.
	Get(ctx context.Context, username string) (User, error)
}
