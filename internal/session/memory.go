package session

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	token   string
	expires time.Time
}

// Bounds for the expired-session sweep interval.
const (
	minMemorySweep = time.Second
	maxMemorySweep = 10 * time.Minute
)

// MemoryStore keeps tokens in process memory under a random session id
// carried in the cookie. Sessions do not survive a restart. Expired entries
// are dropped on read and by a background sweep; call Close to stop it.
type MemoryStore struct {
	opts CookieOptions

	mu      sync.Mutex
	entries map[string]memoryEntry

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewMemoryStore creates a MemoryStore.
func NewMemoryStore(opts CookieOptions) *MemoryStore {
	opts = opts.withDefaults()
	s := &MemoryStore{
		opts:          opts,
		entries:       make(map[string]memoryEntry),
		cleanupTicker: time.NewTicker(memorySweepInterval(opts.TTL)),
		cleanupStop:   make(chan struct{}),
	}
	go s.cleanup()
	return s
}

func memorySweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/2, minMemorySweep), maxMemorySweep)
}

func (s *MemoryStore) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			if n := s.sweep(time.Now()); n > 0 {
				log.Printf("[session] dropped %d expired sessions", n)
			}
		case <-s.cleanupStop:
			return
		}
	}
}

// sweep removes entries expired at now and returns how many.
func (s *MemoryStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweep.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		s.cleanupTicker.Stop()
		close(s.cleanupStop)
	})
	return nil
}

func (s *MemoryStore) Read(r *http.Request) (string, error) {
	id, err := s.opts.read(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return "", ErrNoSession
	}
	if time.Now().After(e.expires) {
		delete(s.entries, id)
		return "", ErrNoSession
	}
	return e.token, nil
}

func (s *MemoryStore) Write(w http.ResponseWriter, _ *http.Request, token string) error {
	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = memoryEntry{token: token, expires: time.Now().Add(s.opts.TTL)}
	s.mu.Unlock()

	http.SetCookie(w, s.opts.cookie(id))
	return nil
}

func (s *MemoryStore) Clear(w http.ResponseWriter, r *http.Request) error {
	if id, err := s.opts.read(r); err == nil {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
	}
	http.SetCookie(w, s.opts.expired())
	return nil
}
