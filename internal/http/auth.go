package httpapi

import (
	"context"
	"net/http"
	"strings"

	"dashboard-backend-go/internal/services"
)

type contextKey string

const ctxUserID contextKey = "userID"

// WithAuth is the single chokepoint every protected route passes through. It
// extracts the bearer token, verifies it, and injects the resolved user id
// into the request context. Missing, malformed, and expired tokens all get
// the same 401 envelope.
func WithAuth(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			userID, err := tokens.ParseToken(tokenStr)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentUserID(r *http.Request) string {
	if value, ok := r.Context().Value(ctxUserID).(string); ok {
		return value
	}
	return ""
}
