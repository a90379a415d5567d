package service

import (
	"context"

	"github.com/vportnov/go-login-service/internal/model"
	"github.com/vportnov/go-login-service/internal/repository"
)

// canAccess reports whether the actor may read or change the given record:
// admins may touch any record, everyone else only their own.
func canAccess(actorUsername, actorRole, username string) bool {
	return actorRole == model.RoleAdmin || actorUsername == username
}

// GetProfile returns the profile record for username.
func (s *AuthService) GetProfile(ctx context.Context, actorUsername, actorRole, username string) (*model.User, error) {
	if !canAccess(actorUsername, actorRole, username) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return nil, &UserNotFoundError{Username: username}
	}
	return user, err
}

// UpdateProfile applies a partial update to the profile record for username
// and returns the updated record.
func (s *AuthService) UpdateProfile(ctx context.Context, actorUsername, actorRole, username string, update model.ProfileUpdate) (*model.User, error) {
	if !canAccess(actorUsername, actorRole, username) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.UpdateProfile(ctx, username, update)
	if err == repository.ErrUserNotFound {
		return nil, &UserNotFoundError{Username: username}
	}
	return user, err
}
