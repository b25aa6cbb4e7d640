// Package middleware provides HTTP middleware for sessions and request ids.
package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/jobby/internal/session"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionKey is the context key for storing the request's session.
const sessionKey ContextKey = "session"

// LoginPath is where requests without a session are sent.
const LoginPath = "/login"

// LoadSession reads the session of every request from store and adds it to
// the request context. A request without a stored session may present a
// token as "Authorization: Bearer <token>"; that session is not persisted.
func LoadSession(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := session.Load(store, w, r)
			if err != nil {
				log.Printf("[session] %s %s: %v", r.Method, r.URL.Path, err)
			}
			if !sess.Active() {
				if tok := BearerToken(r); tok != "" {
					sess = session.FromBearer(tok)
				}
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession redirects requests without an active session to LoginPath
// before the wrapped handler runs.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := GetSession(r)
		if err != nil || !sess.Active() {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetSession extracts the session from the request context.
func GetSession(r *http.Request) (*session.Session, error) {
	sess, ok := r.Context().Value(sessionKey).(*session.Session)
	if !ok || sess == nil {
		return nil, fmt.Errorf("session not found in request context")
	}
	return sess, nil
}

// WithSession returns a copy of r carrying sess (for testing purposes).
func WithSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
}
