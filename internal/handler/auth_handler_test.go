package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vportnov/go-login-service/internal/model"
	"github.com/vportnov/go-login-service/internal/service"
	"github.com/vportnov/go-login-service/internal/test"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (*AuthHandler, *test.MockUserRepository) {
	t.Helper()
	mockRepo := test.NewMockUserRepository()
	authService := service.NewAuthService(mockRepo, "test-secret", 5, 15*time.Minute)
	return NewAuthHandler(authService), mockRepo
}

func addVerifiedUser(t *testing.T, mockRepo *test.MockUserRepository, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &model.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  string(hash),
		Role:          model.RoleUser,
		EmailVerified: true,
		PhoneVerified: true,
	}
	mockRepo.AddUser(user)
	return user
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	handler, _ := newTestHandler(t)

	tests := []struct {
		name           string
		requestBody    map[string]any
		wantStatusCode int
		wantErr        bool
	}{
		{
			name: "valid registration",
			requestBody: map[string]any{
				"username": "alice",
				"email":    "alice@example.com",
				"password": "password123",
			},
			wantStatusCode: http.StatusCreated,
			wantErr:        false,
		},
		{
			name: "missing username",
			requestBody: map[string]any{
				"email":    "alice@example.com",
				"password": "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantErr:        true,
		},
		{
			name: "short password",
			requestBody: map[string]any{
				"username": "bob",
				"email":    "bob@example.com",
				"password": "short",
			},
			wantStatusCode: http.StatusBadRequest,
			wantErr:        true,
		},
		{
			name: "duplicate username",
			requestBody: map[string]any{
				"username": "alice",
				"email":    "alice2@example.com",
				"password": "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Register, "/auth/register", tt.requestBody)

			if w.Code != tt.wantStatusCode {
				t.Errorf("got status %v, want %v", w.Code, tt.wantStatusCode)
			}

			var response map[string]any
			json.NewDecoder(w.Body).Decode(&response)

			if tt.wantErr {
				if response["error"] == nil || response["error"] == "" {
					t.Error("expected error message but got none")
				}
			} else {
				if response["username"] != tt.requestBody["username"] {
					t.Errorf("got username %v, want %v", response["username"], tt.requestBody["username"])
				}
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	handler, mockRepo := newTestHandler(t)
	addVerifiedUser(t, mockRepo, "alice", "password123")

	unverified := addVerifiedUser(t, mockRepo, "carol", "password123")
	unverified.EmailVerified = false

	locked := addVerifiedUser(t, mockRepo, "dave", "password123")
	until := time.Now().Add(10 * time.Minute)
	locked.BlockExpiration = &until

	tests := []struct {
		name           string
		requestBody    map[string]any
		wantStatusCode int
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name:           "unknown user",
			requestBody:    map[string]any{"username": "ghost", "password": "password123"},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "unverified email",
			requestBody:    map[string]any{"username": "carol", "password": "password123"},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "locked account reports minutes remaining",
			requestBody:    map[string]any{"username": "dave", "password": "password123"},
			wantStatusCode: http.StatusForbidden,
			check: func(t *testing.T, body map[string]any) {
				if body["minutes_remaining"] != float64(10) {
					t.Errorf("got minutes_remaining %v, want 10", body["minutes_remaining"])
				}
			},
		},
		{
			name:           "wrong password reports attempts",
			requestBody:    map[string]any{"username": "alice", "password": "nope"},
			wantStatusCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				if body["attempts"] != float64(1) {
					t.Errorf("got attempts %v, want 1", body["attempts"])
				}
			},
		},
		{
			name:           "successful login",
			requestBody:    map[string]any{"username": "alice", "password": "password123"},
			wantStatusCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["token"] == nil || body["token"] == "" {
					t.Error("expected a token")
				}
				if body["role"] != model.RoleUser {
					t.Errorf("got role %v, want %q", body["role"], model.RoleUser)
				}
				if _, present := body["one_time_password"]; present {
					t.Error("one_time_password must be absent for ordinary logins")
				}
			},
		},
		{
			name:           "recovery login",
			requestBody:    map[string]any{"username": "alice", "password": "password123", "recovery": true},
			wantStatusCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["one_time_password"] != true {
					t.Error("expected one_time_password=true for a recovery login")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Login, "/auth/login", tt.requestBody)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %v, want %v (body %s)", w.Code, tt.wantStatusCode, w.Body.String())
			}

			var body map[string]any
			json.NewDecoder(w.Body).Decode(&body)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestAuthHandler_LoginInfrastructureFault(t *testing.T) {
	handler, mockRepo := newTestHandler(t)
	mockRepo.FailWith = context.DeadlineExceeded

	w := postJSON(t, handler.Login, "/auth/login", map[string]any{"username": "alice", "password": "password123"})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("got status %v, want %v", w.Code, http.StatusInternalServerError)
	}

	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "Internal server error" {
		t.Errorf("infrastructure fault leaked detail: %v", body["error"])
	}
}
