package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vportnov/go-login-service/internal/interfaces"
	"github.com/vportnov/go-login-service/internal/model"
	"github.com/vportnov/go-login-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo         interfaces.UserRepository
	jwtSecret        []byte
	tokenExpiry      time.Duration
	lockoutThreshold int
	lockDuration     time.Duration
}

// NewAuthService creates a new authentication service. lockoutThreshold is
// the number of consecutive failed logins that locks an account and
// lockDuration is how long such a lock lasts; both come from configuration
// rather than being baked in here.
func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, lockoutThreshold int, lockDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		jwtSecret:        []byte(jwtSecret),
		tokenExpiry:      24 * time.Hour, // tokens expire after 24 hours
		lockoutThreshold: lockoutThreshold,
		lockDuration:     lockDuration,
	}
}

// RegisterUser creates a new account with a hashed password. Accounts start
// with both verification flags false; the (external) confirmation flows flip
// them before the first login can succeed.
func (s *AuthService) RegisterUser(ctx context.Context, username, email, phone, password string) (*model.User, error) {
	// Hash the password with a cost factor of 12 (recommended minimum)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	return s.userRepo.CreateUser(ctx, &model.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	})
}

// issueToken mints a signed JWT for the user and records its session so it
// can be revoked later.
func (s *AuthService) issueToken(ctx context.Context, user *model.User) (string, error) {
	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(s.tokenExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      expiresAt.Unix(),
		"jti":      tokenID,
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	if err := s.userRepo.CreateSession(ctx, user.ID, tokenID, expiresAt); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the user claims
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	tokenID, ok := claims["jti"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	// Check if token is revoked
	if valid, err := s.userRepo.IsSessionValid(ctx, tokenID); err != nil {
		return nil, err
	} else if !valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// LogoutUser revokes the user's token
func (s *AuthService) LogoutUser(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return err
	}

	tokenID, ok := claims["jti"].(string)
	if !ok {
		return ErrInvalidToken
	}

	return s.userRepo.RevokeSession(ctx, tokenID)
}

// UnlockUser clears an account lock and its attempt counter. Admin-only;
// this is the one path that removes a stored lock, the login gate itself
// only ever waits one out.
func (s *AuthService) UnlockUser(ctx context.Context, actorRole, username string) error {
	if actorRole != model.RoleAdmin {
		return ErrForbidden
	}

	err := s.userRepo.UnlockAccount(ctx, username)
	if err == repository.ErrUserNotFound {
		return &UserNotFoundError{Username: username}
	}
	return err
}
