package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/district-digest/internal/auth"
)

type key string

const claimsKey key = "session_claims"

// Audience says how an unauthenticated request to a protected route is answered.
type Audience int

const (
	// Page routes redirect to the login page.
	Page Audience = iota
	// API routes answer 401 with a JSON error body.
	API
)

// SessionResolver resolves the caller's session from the request.
type SessionResolver interface {
	Current(r *http.Request) (*auth.Claims, error)
}

// RequireSession rejects requests without a valid session cookie and stores the claims in the context.
func RequireSession(sessions SessionResolver, audience Audience) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessions.Current(r)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					slog.Error("resolve session", "path", r.URL.Path, "error", err)
				}
				reject(w, r, audience)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, audience Audience) {
	if audience == Page {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

// CurrentUser returns the session claims set by RequireSession, or nil.
func CurrentUser(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
