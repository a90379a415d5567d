package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vportnov/go-login-service/internal/middleware"
	"github.com/vportnov/go-login-service/internal/repository"
	"github.com/vportnov/go-login-service/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// Recovery is set by clients logging in with a temporary password
	// obtained from the password-recovery flow.
	Recovery bool `json:"recovery"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"user_id"`
	Role    string `json:"role"`
	// OneTimePassword is only present for recovery logins; it tells the
	// client the password just used is single-use and must be changed.
	OneTimePassword bool `json:"one_time_password,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	// Attempts accompanies a wrong-password rejection so the client can
	// show how close the account is to being locked.
	Attempts int `json:"attempts,omitempty"`
	// MinutesRemaining accompanies a locked-account rejection when an
	// existing lock is still running.
	MinutesRemaining int `json:"minutes_remaining,omitempty"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Basic validation
	if req.Username == "" || req.Email == "" || req.Password == "" {
		sendJSONError(w, "Username, email and password are required", http.StatusBadRequest)
		return
	}

	if len(req.Password) < 8 {
		sendJSONError(w, "Password must be at least 8 characters long", http.StatusBadRequest)
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), req.Username, req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "User registered successfully", "username": user.Username})
}

// Login handles a login attempt and maps each outcome of the decision
// sequence to a status code and body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, service.Credential{
		Password: req.Password,
		Recovery: req.Recovery,
	})
	if err != nil {
		writeLoginError(w, err)
		return
	}

	resp := LoginResponse{
		Message: "Logged in successfully",
		Token:   result.Token,
		UserID:  result.UserID,
		Role:    result.Role,
	}
	if result.RecoveryLogin {
		resp.Message = "Logged in with a one-time password, please set a new password"
		resp.OneTimePassword = true
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeLoginError translates the typed login rejections into HTTP responses.
// Anything unrecognized is an infrastructure fault and stays opaque.
func writeLoginError(w http.ResponseWriter, err error) {
	var notFound *service.UserNotFoundError
	var locked *service.AccountLockedError
	var incorrect *service.IncorrectPasswordError

	switch {
	case errors.As(err, &notFound):
		sendJSONError(w, notFound.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrEmailNotVerified), errors.Is(err, service.ErrPhoneNotVerified):
		sendJSONError(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &locked):
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error:            locked.Error(),
			MinutesRemaining: locked.MinutesRemaining,
		})
	case errors.As(err, &incorrect):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:    incorrect.Error(),
			Attempts: incorrect.Attempts,
		})
	default:
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Logout handles user logout by revoking the JWT token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		sendJSONError(w, "No token provided", http.StatusUnauthorized)
		return
	}

	if err := h.authService.LogoutUser(r.Context(), token); err != nil {
		sendJSONError(w, "Failed to logout", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// Helper function to send JSON error responses
func sendJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, ErrorResponse{Error: message})
}
