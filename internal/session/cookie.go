package session

import (
	"net/http"
	"time"
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = DefaultCookieName
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return o
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(o.TTL.Seconds()),
		Expires:  time.Now().Add(o.TTL),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) expired() *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) read(r *http.Request) (string, error) {
	c, err := r.Cookie(o.Name)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}
	return c.Value, nil
}

// CookieStore keeps the token itself in the session cookie.
type CookieStore struct {
	opts CookieOptions
}

// NewCookieStore creates a CookieStore.
func NewCookieStore(opts CookieOptions) *CookieStore {
	return &CookieStore{opts: opts.withDefaults()}
}

func (s *CookieStore) Read(r *http.Request) (string, error) {
	return s.opts.read(r)
}

func (s *CookieStore) Write(w http.ResponseWriter, _ *http.Request, token string) error {
	http.SetCookie(w, s.opts.cookie(token))
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, s.opts.expired())
	return nil
}
