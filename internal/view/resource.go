package view

import (
	"context"
	"errors"
	"sync"
)

// ErrNothingToRetry is returned by Retry before any fetch has run.
var ErrNothingToRetry = errors.New("view: no previous fetch to retry")

// Fetch produces a resource value.
type Fetch[T any] func(ctx context.Context) (T, error)

// Resource tracks the fetch state of one resource.
//
// Overlapping Run calls are allowed. Starting a fetch cancels the context
// of the one it supersedes, and only the newest fetch may commit its
// result; a stale result is dropped. Failure keeps the last good data.
type Resource[T any] struct {
	mu     sync.Mutex
	state  State[T]
	last   T
	hasAny bool
	gen    uint64
	cancel context.CancelFunc
	fetch  Fetch[T]
}

// NewResource returns an Idle resource.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{state: Idle[T]{}}
}

// Snapshot is a consistent read of a Resource.
type Snapshot[T any] struct {
	State State[T]
	// Last is the data of the most recent successful fetch, kept across failures.
	Last    T
	HasLast bool
}

// Status is shorthand for the current state's status.
func (s Snapshot[T]) Status() Status {
	return s.State.Status()
}

// Err is the current failure, if any.
func (s Snapshot[T]) Err() error {
	return Err[T](s.State)
}

// Snapshot returns the current state and last good data.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{State: r.state, Last: r.last, HasLast: r.hasAny}
}

// State returns the current state.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Begin moves the resource to Loading and returns the generation token and
// context the fetch must use. The previous in-flight fetch is cancelled.
func (r *Resource[T]) Begin(ctx context.Context, fetch Fetch[T]) (uint64, context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	fctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.fetch = fetch
	r.state = Loading[T]{}
	return r.gen, fctx
}

// Commit records the outcome of the fetch started with gen. It reports
// false and changes nothing when a newer fetch has begun since.
func (r *Resource[T]) Commit(gen uint64, data T, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		return false
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if err != nil {
		r.state = Failed[T]{Err: err}
		return true
	}
	r.state = Loaded[T]{Data: data}
	r.last = data
	r.hasAny = true
	return true
}

// Run begins a fetch, runs it and commits its result. It returns the state
// the resource is in afterwards, which belongs to a newer fetch if this
// one was superseded.
func (r *Resource[T]) Run(ctx context.Context, fetch Fetch[T]) State[T] {
	gen, fctx := r.Begin(ctx, fetch)
	data, err := fetch(fctx)
	r.Commit(gen, data, err)
	return r.State()
}

// Retry re-runs the last fetch unchanged.
func (r *Resource[T]) Retry(ctx context.Context) (State[T], error) {
	r.mu.Lock()
	fetch := r.fetch
	r.mu.Unlock()

	if fetch == nil {
		return r.State(), ErrNothingToRetry
	}
	return r.Run(ctx, fetch), nil
}

// Reset cancels any in-flight fetch and returns the resource to Idle.
// Last good data is discarded.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	var zero T
	r.state = Idle[T]{}
	r.last = zero
	r.hasAny = false
	r.fetch = nil
}
