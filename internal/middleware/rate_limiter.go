package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimiter limits requests per client IP for regular endpoints
// (100 requests per minute).
func RateLimiter() func(http.Handler) http.Handler {
	return httprate.LimitByIP(100, time.Minute)
}

// StrictRateLimiter is the tighter limit for credential-handling endpoints
// like login and registration (10 requests per minute per IP). This slows
// online guessing down before the account-lockout counter even comes into
// play.
func StrictRateLimiter() func(http.Handler) http.Handler {
	return httprate.LimitByIP(10, time.Minute)
}
