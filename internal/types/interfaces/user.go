package interfaces

import (
	"context"

	"github.com/majordome-app/majordome/internal/types"
)

// UserService defines the interface for lazy user management
type UserService interface {
	// GetUser returns the user or nil when absent
	GetUser(ctx context.Context, id string) (*types.User, error)

	// GetOrCreateUser resolves the user by id, creating a fresh one when
	// the id is empty or unknown
	GetOrCreateUser(ctx context.Context, id string) (*types.User, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user and generates its identity
	Create(ctx context.Context, user *types.User) error

	// GetByID returns the user or nil when absent
	GetByID(ctx context.Context, id string) (*types.User, error)
}
