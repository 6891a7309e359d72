package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are never deleted in this design, so no Delete is exposed.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry
	// a hashed password; stores never see plaintext.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's name and email.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error
}
