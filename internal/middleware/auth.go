package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/config"
)

type contextKey string

const (
	UserKey  contextKey = "user"
	TokenKey contextKey = "session_token"
)

// TokenValidator resolves a session token to its operator.
type TokenValidator interface {
	Authenticate(token string) (config.User, bool)
}

// SessionAuth validates the bearer session token from the Authorization
// header and stores the operator in the request context.
func SessionAuth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			user, ok := v.Authenticate(token)
			if !ok {
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated operator from context.
func GetUserFromContext(ctx context.Context) (config.User, bool) {
	u, ok := ctx.Value(UserKey).(config.User)
	return u, ok
}

// GetTokenFromContext extracts the session token from context.
func GetTokenFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(TokenKey).(string); ok {
		return t
	}
	return ""
}
