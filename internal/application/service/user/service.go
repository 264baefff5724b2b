package user

import (
	"context"

	"github.com/majordome-app/majordome/internal/logger"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// userService implements the UserService interface. Users carry identity
// only and are created lazily on first OAuth interaction or session
// validation.
type userService struct {
	repo interfaces.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo interfaces.UserRepository) interfaces.UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*types.User, error) {
	if id == "" {
		return nil, nil
	}
	return s.repo.GetByID(ctx, id)
}

// GetOrCreateUser resolves a user, creating a fresh one when the id is
// empty or unknown
func (s *userService) GetOrCreateUser(ctx context.Context, id string) (*types.User, error) {
	if id != "" {
		user, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	user := &types.User{}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info(ctx, "created user %s", user.ID)
	return user, nil
}
