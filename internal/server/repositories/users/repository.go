// Package users declares the server-side repository contract for account
// rows.
package users

import (
	"context"

	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create stores a new user and returns it with the generated id.
	// A username collision yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns the user with the given username, or
	// common.ErrorNotFound when absent.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
