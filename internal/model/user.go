package model

import "time"

// Roles recognized by the authorization checks on profile endpoints.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID            int64
	Username      string
	Email         string
	Phone         string
	FirstName     string
	LastName      string
	PasswordHash  string
	Role          string
	EmailVerified bool
	PhoneVerified bool
	// LoginAttempts counts consecutive failed logins. Reset to zero on
	// success; reaching the configured threshold locks the account.
	LoginAttempts int
	// BlockExpiration is nil when the account has never been locked. A
	// timestamp in the past means the lock expired naturally; only an
	// admin unlock clears the stored value.
	BlockExpiration *time.Time
	Created         time.Time
}

// ProfileUpdate holds the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Email     *string
	Phone     *string
	FirstName *string
	LastName  *string
}
