package userRepo

import (
	"context"
	"errors"

	"dutynotify/models"
)

// ErrUserNotFound is returned by GetByID when no profile document exists.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines methods for user profile access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByRole retrieves every user holding role.
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	// Delete removes a user profile by its ID. Deleting a missing profile is not an error.
	Delete(ctx context.Context, id string) error
}
