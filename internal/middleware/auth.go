package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vportnov/go-login-service/internal/service"
)

// Actor identifies the authenticated caller of a request.
type Actor struct {
	Username string
	Role     string
}

type contextKey struct{ name string }

var actorKey = &contextKey{"actor"}

// BearerToken extracts the token from the Authorization header, or returns
// an empty string when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// ActorFromContext returns the authenticated actor stored by Authenticator.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// Authenticator rejects requests without a valid session token and stores
// the caller's identity in the request context for the handlers behind it.
func Authenticator(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "No token provided")
				return
			}

			claims, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			username, _ := claims["username"].(string)
			role, _ := claims["role"].(string)
			if username == "" {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, Actor{Username: username, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
