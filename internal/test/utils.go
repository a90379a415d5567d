package test

import (
	"context"
	"time"

	"github.com/vportnov/go-login-service/internal/interfaces"
	"github.com/vportnov/go-login-service/internal/model"
	"github.com/vportnov/go-login-service/internal/repository"
)

// MockUserRepository implements interfaces.UserRepository over in-memory
// maps. Tests can seed accounts with AddUser and inspect stored state with
// StoredUser. Setting FailWith makes every operation return that error, for
// exercising the infrastructure-fault path.
type MockUserRepository struct {
	users    map[string]*model.User
	sessions map[string]bool
	nextID   int64

	FailWith error
}

// Verify that MockUserRepository implements UserRepository interface
var _ interfaces.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:    make(map[string]*model.User),
		sessions: make(map[string]bool),
	}
}

// AddUser seeds an account directly, bypassing registration defaults.
func (r *MockUserRepository) AddUser(user *model.User) {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.Username] = user
}

// StoredUser returns the stored record for username, or nil.
func (r *MockUserRepository) StoredUser(username string) *model.User {
	return r.users[username]
}

func (r *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, repository.ErrDuplicateUsername
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.Created = time.Now()
	r.users[stored.Username] = &stored
	return &stored, nil
}

func (r *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	user, exists := r.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	// Copy so callers can't mutate stored state behind the repository's
	// back; counter and lock changes go through the dedicated methods.
	u := *user
	return &u, nil
}

func (r *MockUserRepository) IncrementLoginAttempts(ctx context.Context, username string) (int, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	user, exists := r.users[username]
	if !exists {
		return 0, repository.ErrUserNotFound
	}
	user.LoginAttempts++
	return user.LoginAttempts, nil
}

func (r *MockUserRepository) ResetLoginAttempts(ctx context.Context, username string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	user, exists := r.users[username]
	if !exists {
		return repository.ErrUserNotFound
	}
	user.LoginAttempts = 0
	return nil
}

func (r *MockUserRepository) LockAccount(ctx context.Context, username string, until time.Time) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	user, exists := r.users[username]
	if !exists {
		return repository.ErrUserNotFound
	}
	user.BlockExpiration = &until
	return nil
}

func (r *MockUserRepository) UnlockAccount(ctx context.Context, username string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	user, exists := r.users[username]
	if !exists {
		return repository.ErrUserNotFound
	}
	user.BlockExpiration = nil
	user.LoginAttempts = 0
	return nil
}

func (r *MockUserRepository) UpdateProfile(ctx context.Context, username string, update model.ProfileUpdate) (*model.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	user, exists := r.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	u := *user
	return &u, nil
}

func (r *MockUserRepository) CreateSession(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.sessions[tokenID] = true
	return nil
}

func (r *MockUserRepository) RevokeSession(ctx context.Context, tokenID string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	if _, exists := r.sessions[tokenID]; !exists {
		return repository.ErrSessionNotFound
	}
	r.sessions[tokenID] = false
	return nil
}

func (r *MockUserRepository) IsSessionValid(ctx context.Context, tokenID string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	valid, exists := r.sessions[tokenID]
	if !exists {
		return false, nil
	}
	return valid, nil
}
