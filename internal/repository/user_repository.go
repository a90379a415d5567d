package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/vportnov/go-login-service/internal/database"
	"github.com/vportnov/go-login-service/internal/interfaces"
	"github.com/vportnov/go-login-service/internal/model"
)

// Common errors that can be returned by the repository
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username or email already exists")
	ErrSessionNotFound   = errors.New("session not found")
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// Verify that UserRepositoryImpl implements UserRepository interface
var _ interfaces.UserRepository = (*UserRepositoryImpl)(nil)

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *database.DB) interfaces.UserRepository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id, username, email, phone, first_name, last_name,
	password_hash, role, email_verified, phone_verified,
	failed_login_attempts, block_expiration, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.FirstName, &user.LastName, &user.PasswordHash, &user.Role,
		&user.EmailVerified, &user.PhoneVerified, &user.LoginAttempts,
		&user.BlockExpiration, &user.Created)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new account. New accounts start unverified with a
// zero attempt counter and no lock.
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email, phone, first_name, last_name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		user.Username, user.Email, user.Phone, user.FirstName, user.LastName,
		user.PasswordHash, user.Role)

	created, err := scanUser(row)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return created, nil
}

// GetUserByUsername retrieves an account by its unique username
func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// IncrementLoginAttempts bumps the failed-login counter in one statement and
// returns the new count. The RETURNING clause makes concurrent increments
// against the same account serialize in the database instead of racing in
// application code.
func (r *UserRepositoryImpl) IncrementLoginAttempts(ctx context.Context, username string) (int, error) {
	var attempts int
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE users
		 SET failed_login_attempts = failed_login_attempts + 1
		 WHERE username = $1
		 RETURNING failed_login_attempts`,
		username).Scan(&attempts)

	if err == pgx.ErrNoRows {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return attempts, nil
}

// ResetLoginAttempts zeroes the failed-login counter after a successful login
func (r *UserRepositoryImpl) ResetLoginAttempts(ctx context.Context, username string) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE users
		 SET failed_login_attempts = 0,
		     last_login = CURRENT_TIMESTAMP
		 WHERE username = $1`,
		username)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// LockAccount sets the lock expiry timestamp
func (r *UserRepositoryImpl) LockAccount(ctx context.Context, username string, until time.Time) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET block_expiration = $2 WHERE username = $1`,
		username, until)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UnlockAccount clears the lock and the counter. Used by the administrative
// unlock endpoint, never by the login path.
func (r *UserRepositoryImpl) UnlockAccount(ctx context.Context, username string) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE users
		 SET block_expiration = NULL,
		     failed_login_attempts = 0
		 WHERE username = $1`,
		username)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile applies the non-nil fields of update and returns the new row
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, username string, update model.ProfileUpdate) (*model.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`UPDATE users
		 SET email      = COALESCE($2, email),
		     phone      = COALESCE($3, phone),
		     first_name = COALESCE($4, first_name),
		     last_name  = COALESCE($5, last_name)
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, update.Email, update.Phone, update.FirstName, update.LastName)
	return scanUser(row)
}

// CreateSession creates a new session for a user
func (r *UserRepositoryImpl) CreateSession(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO sessions (user_id, token_id, expires_at)
		 VALUES ($1, $2, $3)`,
		userID, tokenID, expiresAt)
	return err
}

// RevokeSession marks a session as revoked
func (r *UserRepositoryImpl) RevokeSession(ctx context.Context, tokenID string) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions
		 SET is_revoked = true
		 WHERE token_id = $1`,
		tokenID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// IsSessionValid checks if a session is valid and not expired
func (r *UserRepositoryImpl) IsSessionValid(ctx context.Context, tokenID string) (bool, error) {
	var isRevoked bool
	var expiresAt time.Time

	err := r.db.Pool.QueryRow(ctx,
		`SELECT is_revoked, expires_at
		 FROM sessions
		 WHERE token_id = $1`,
		tokenID).Scan(&isRevoked, &expiresAt)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return !isRevoked && time.Now().Before(expiresAt), nil
}
