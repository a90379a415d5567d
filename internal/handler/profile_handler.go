package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vportnov/go-login-service/internal/middleware"
	"github.com/vportnov/go-login-service/internal/model"
	"github.com/vportnov/go-login-service/internal/service"
)

type ProfileHandler struct {
	authService *service.AuthService
}

func NewProfileHandler(authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{
		authService: authService,
	}
}

type ProfileResponse struct {
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	FirstName       string     `json:"first_name,omitempty"`
	LastName        string     `json:"last_name,omitempty"`
	Role            string     `json:"role"`
	EmailVerified   bool       `json:"email_verified"`
	PhoneVerified   bool       `json:"phone_verified"`
	BlockExpiration *time.Time `json:"block_expiration,omitempty"`
	Created         time.Time  `json:"created"`
}

type ProfileUpdateRequest struct {
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func profileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		Username:        user.Username,
		Email:           user.Email,
		Phone:           user.Phone,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		EmailVerified:   user.EmailVerified,
		PhoneVerified:   user.PhoneVerified,
		BlockExpiration: user.BlockExpiration,
		Created:         user.Created,
	}
}

// GetProfile returns the profile record for the username in the URL.
// Requires the authentication middleware.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	user, err := h.authService.GetProfile(r.Context(), actor.Username, actor.Role, username)
	if err != nil {
		writeProfileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse(user))
}

// UpdateProfile applies a partial update to the profile record for the
// username in the URL.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username := chi.URLParam(r, "username")
	user, err := h.authService.UpdateProfile(r.Context(), actor.Username, actor.Role, username, model.ProfileUpdate{
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeProfileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse(user))
}

// Unlock clears an account lock. Admin only.
func (h *ProfileHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.authService.UnlockUser(r.Context(), actor.Role, username); err != nil {
		writeProfileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account unlocked", "username": username})
}

func writeProfileError(w http.ResponseWriter, err error) {
	var notFound *service.UserNotFoundError

	switch {
	case errors.As(err, &notFound):
		sendJSONError(w, notFound.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		sendJSONError(w, err.Error(), http.StatusForbidden)
	default:
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
