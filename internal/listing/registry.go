package listing

import (
	"log"
	"sync"
	"time"
)

// DefaultIdleTTL is how long an unused screen is kept.
const DefaultIdleTTL = 30 * time.Minute

// minSweepInterval bounds how often the idle sweep runs.
const minSweepInterval = time.Second

// Registry keeps one Screen per session so location filtering can work off
// the last fetched list across page loads. Screens idle for longer than the
// TTL are dropped by a background sweep.
type Registry struct {
	api     API
	idleTTL time.Duration

	mu         sync.Mutex
	screens    map[string]*Screen
	lastAccess map[string]time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewRegistry creates a registry. A zero idleTTL uses DefaultIdleTTL; the
// sweep runs every idleTTL/2, but not more often than once a second.
func NewRegistry(api API, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	r := &Registry{
		api:           api,
		idleTTL:       idleTTL,
		screens:       make(map[string]*Screen),
		lastAccess:    make(map[string]time.Time),
		cleanupTicker: time.NewTicker(sweepInterval(idleTTL)),
		cleanupStop:   make(chan struct{}),
	}
	go r.cleanup()
	return r
}

func sweepInterval(idleTTL time.Duration) time.Duration {
	return max(idleTTL/2, minSweepInterval)
}

// Get returns the screen for key, creating it with token if needed.
func (r *Registry) Get(key, token string) *Screen {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.screens[key]
	if !ok {
		s = NewScreen(r.api, token)
		r.screens[key] = s
	}
	r.lastAccess[key] = time.Now()
	return s
}

// Forget drops the screen for key, e.g. on logout.
func (r *Registry) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.screens, key)
	delete(r.lastAccess, key)
}

// Len returns the number of live screens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}

func (r *Registry) cleanup() {
	for {
		select {
		case <-r.cleanupTicker.C:
			if n := r.sweep(time.Now()); n > 0 {
				log.Printf("[listing] dropped %d idle screens", n)
			}
		case <-r.cleanupStop:
			return
		}
	}
}

// sweep removes screens last used before now-idleTTL and returns how many.
func (r *Registry) sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for key, last := range r.lastAccess {
		if last.Before(cutoff) {
			delete(r.screens, key)
			delete(r.lastAccess, key)
			n++
		}
	}
	return n
}

// Stop stops the cleanup goroutine.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		r.cleanupTicker.Stop()
		close(r.cleanupStop)
	})
}
