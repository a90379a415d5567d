package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Lockout policy defaults, used when the environment doesn't override them.
const (
	DefaultLockoutThreshold = 5
	DefaultLockDuration     = 15 * time.Minute
)

type Config struct {
	Port      string
	JwtSecret string
	DbURL     string

	// LockoutThreshold is the number of consecutive failed logins that
	// locks an account. LockDuration is how long the lock lasts.
	LockoutThreshold int
	LockDuration     time.Duration
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// It returns an error if any required variable is missing or malformed.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	jwtSecret := os.Getenv("JWT_SECRET")
	dbURL := os.Getenv("DATABASE_URL")

	if port == "" || jwtSecret == "" || dbURL == "" {
		return nil, fmt.Errorf("missing required environment variables: PORT=%q, JWT_SECRET=%q, DATABASE_URL=%q", port, jwtSecret, dbURL)
	}

	threshold := DefaultLockoutThreshold
	if v := os.Getenv("LOCKOUT_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid LOCKOUT_THRESHOLD %q", v)
		}
		threshold = n
	}

	lockDuration := DefaultLockDuration
	if v := os.Getenv("LOCKOUT_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid LOCKOUT_DURATION %q", v)
		}
		lockDuration = d
	}

	cfg := &Config{
		Port:             port,
		JwtSecret:        jwtSecret,
		DbURL:            dbURL,
		LockoutThreshold: threshold,
		LockDuration:     lockDuration,
	}
	return cfg, nil
}
