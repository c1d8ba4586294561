package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. It handles domain validation
	// and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user. If a new plaintext Password is set,
	// it is hashed and HashedPassword replaced.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// when updating to a taken email.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by their ID. Owned folders and study sets go
	// with them via ON DELETE CASCADE.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
