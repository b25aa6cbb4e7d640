// Package session stores the API token of a signed-in user between requests.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName is the cookie the token (or session id) is kept in.
const DefaultCookieName = "jwt_token"

// DefaultTTL is how long a session lives.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNoSession is returned by stores when the request carries no session.
var ErrNoSession = errors.New("session: no session")

// Store persists a token across requests.
type Store interface {
	// Read returns the token of r's session, or ErrNoSession.
	Read(r *http.Request) (string, error)
	// Write starts a session for token.
	Write(w http.ResponseWriter, r *http.Request, token string) error
	// Clear ends r's session.
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Session is the explicit per-request view of a stored session.
// An expired token reads as absent.
type Session struct {
	store Store
	w     http.ResponseWriter
	r     *http.Request
	token string
}

// Load reads the session of r from store. Store errors other than
// ErrNoSession are returned alongside an empty session.
func Load(store Store, w http.ResponseWriter, r *http.Request) (*Session, error) {
	s := &Session{store: store, w: w, r: r}
	tok, err := store.Read(r)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return s, nil
		}
		return s, err
	}
	if TokenExpired(tok, time.Now()) {
		return s, nil
	}
	s.token = tok
	return s, nil
}

// FromBearer returns a session for a token presented in a request header.
// Nothing is persisted: Set and Clear only affect this request.
func FromBearer(token string) *Session {
	if TokenExpired(token, time.Now()) {
		token = ""
	}
	return &Session{token: token}
}

// Token returns the token, or "" when absent.
func (s *Session) Token() string {
	return s.token
}

// Active reports whether a token is present.
func (s *Session) Active() bool {
	return s.token != ""
}

// Set stores token as the session token.
func (s *Session) Set(token string) error {
	if s.store == nil {
		s.token = token
		return nil
	}
	if err := s.store.Write(s.w, s.r, token); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear destroys the session.
func (s *Session) Clear() error {
	s.token = ""
	if s.store == nil {
		return nil
	}
	return s.store.Clear(s.w, s.r)
}

// Key identifies the session without exposing the token.
func (s *Session) Key() string {
	return Key(s.token)
}

// Key returns the hex sha256 of token, or "" for an empty token.
func Key(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenExpired reports whether token is a JWT whose exp claim is before now.
// The signature is not checked; opaque tokens never expire here.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
