package interfaces

import (
	"context"
	"time"

	"github.com/vportnov/go-login-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
// Counter and lock mutations must be atomic at the storage level (single
// conditional statement, not read-modify-write) so concurrent attempts
// against one account cannot lose updates.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// IncrementLoginAttempts adds one to the failed-login counter and
	// returns the new value.
	IncrementLoginAttempts(ctx context.Context, username string) (int, error)
	ResetLoginAttempts(ctx context.Context, username string) error
	LockAccount(ctx context.Context, username string, until time.Time) error
	UnlockAccount(ctx context.Context, username string) error

	UpdateProfile(ctx context.Context, username string, update model.ProfileUpdate) (*model.User, error)

	CreateSession(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error
	RevokeSession(ctx context.Context, tokenID string) error
	IsSessionValid(ctx context.Context, tokenID string) (bool, error)
}
