package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vportnov/go-login-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Credential is a password presented for login. Recovery marks it as a
// temporary password issued by the recovery flow; the caller that generated
// the temporary password sets the flag, it is never inferred from the
// password itself.
type Credential struct {
	Password string
	Recovery bool
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token         string
	UserID        int64
	Role          string
	RecoveryLogin bool
}

// Login runs the login decision sequence for username: account lookup,
// verification gate, lockout gate, password check. Gates run strictly in
// that order and the first failing gate decides the outcome. Business
// rejections come back as the typed errors in errors.go; anything else is an
// infrastructure fault.
func (s *AuthService) Login(ctx context.Context, username string, cred Credential) (*LoginResult, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, &UserNotFoundError{Username: username}
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	// Email first, then phone: when both are unverified only the email
	// message goes out.
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !user.PhoneVerified {
		return nil, ErrPhoneNotVerified
	}

	if user.BlockExpiration != nil {
		if remaining := time.Until(*user.BlockExpiration); remaining > 0 {
			return nil, &AccountLockedError{MinutesRemaining: ceilMinutes(remaining)}
		}
		// Lock has expired; fall through without clearing the stored
		// timestamp.
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cred.Password)) != nil {
		attempts, err := s.userRepo.IncrementLoginAttempts(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("recording failed attempt: %w", err)
		}

		if attempts >= s.lockoutThreshold {
			until := time.Now().Add(s.lockDuration)
			if err := s.userRepo.LockAccount(ctx, username, until); err != nil {
				return nil, fmt.Errorf("locking account: %w", err)
			}
			// Freshly triggered lock: no minutes-remaining on this
			// attempt.
			return nil, &AccountLockedError{}
		}

		return nil, &IncorrectPasswordError{Attempts: attempts}
	}

	if err := s.userRepo.ResetLoginAttempts(ctx, username); err != nil {
		return nil, fmt.Errorf("resetting attempt counter: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:         token,
		UserID:        user.ID,
		Role:          user.Role,
		RecoveryLogin: cred.Recovery,
	}, nil
}

// ceilMinutes rounds a remaining duration up to whole minutes, with a floor
// of one so an active lock never reports zero minutes left.
func ceilMinutes(d time.Duration) int {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
