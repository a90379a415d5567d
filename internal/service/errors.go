package service

import (
	"errors"
	"fmt"
)

// Business rejections are typed values so the handler can map each one to a
// status code and payload with errors.Is / errors.As. Infrastructure faults
// (storage, token signing) are returned wrapped and opaque instead.
var (
	ErrEmailNotVerified = errors.New("email address has not been verified")
	ErrPhoneNotVerified = errors.New("phone number has not been verified")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrForbidden        = errors.New("not allowed to access this resource")
)

// UserNotFoundError reports a login or profile request for an unknown username.
type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.Username)
}

// AccountLockedError reports a login attempt against a locked account.
// MinutesRemaining is zero on the attempt that triggered the lock and the
// ceiling of the remaining lock time on every attempt after that, so an
// active lock never reads as "0 minutes left".
type AccountLockedError struct {
	MinutesRemaining int
}

func (e *AccountLockedError) Error() string {
	if e.MinutesRemaining > 0 {
		return fmt.Sprintf("account is locked, try again in %d minute(s)", e.MinutesRemaining)
	}
	return "account is locked due to too many failed login attempts"
}

// IncorrectPasswordError reports a wrong password. Attempts is the updated
// failed-attempt count so callers can tell the user how close the account is
// to being locked.
type IncorrectPasswordError struct {
	Attempts int
}

func (e *IncorrectPasswordError) Error() string {
	return fmt.Sprintf("incorrect password (failed attempt %d)", e.Attempts)
}
