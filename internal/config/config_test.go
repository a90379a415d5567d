package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/authdb?sslmode=disable")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCKOUT_THRESHOLD", "")
	t.Setenv("LOCKOUT_DURATION", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("got port %q, want %q", cfg.Port, "8080")
	}
	if cfg.LockoutThreshold != DefaultLockoutThreshold {
		t.Errorf("got threshold %d, want %d", cfg.LockoutThreshold, DefaultLockoutThreshold)
	}
	if cfg.LockDuration != DefaultLockDuration {
		t.Errorf("got lock duration %v, want %v", cfg.LockDuration, DefaultLockDuration)
	}
}

func TestLoadLockoutOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCKOUT_THRESHOLD", "3")
	t.Setenv("LOCKOUT_DURATION", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LockoutThreshold != 3 {
		t.Errorf("got threshold %d, want 3", cfg.LockoutThreshold)
	}
	if cfg.LockDuration != 30*time.Minute {
		t.Errorf("got lock duration %v, want 30m", cfg.LockDuration)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric threshold", key: "LOCKOUT_THRESHOLD", value: "lots"},
		{name: "zero threshold", key: "LOCKOUT_THRESHOLD", value: "0"},
		{name: "unparseable duration", key: "LOCKOUT_DURATION", value: "soon"},
		{name: "negative duration", key: "LOCKOUT_DURATION", value: "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error but got none")
	}
}
