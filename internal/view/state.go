// Package view holds per-resource fetch state for screens.
//
// Each independently fetched resource is in exactly one of four states:
// Idle, Loading, Loaded or Failed. State is a closed union; only this
// package can add variants.
package view

// Status names a state variant. Templates compare against these values.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// State is the fetch state of a resource holding a T.
type State[T any] interface {
	Status() Status
	sealed()
}

// Idle means no fetch has started.
type Idle[T any] struct{}

// Loading means a fetch is in flight.
type Loading[T any] struct{}

// Loaded carries the data of the last successful fetch.
type Loaded[T any] struct {
	Data T
}

// Failed carries the error of the last fetch.
type Failed[T any] struct {
	Err error
}

func (Idle[T]) Status() Status    { return StatusIdle }
func (Loading[T]) Status() Status { return StatusLoading }
func (Loaded[T]) Status() Status  { return StatusLoaded }
func (Failed[T]) Status() Status  { return StatusFailed }

func (Idle[T]) sealed()    {}
func (Loading[T]) sealed() {}
func (Loaded[T]) sealed()  {}
func (Failed[T]) sealed()  {}

// Data returns the payload of s when it is Loaded.
func Data[T any](s State[T]) (T, bool) {
	if l, ok := s.(Loaded[T]); ok {
		return l.Data, true
	}
	var zero T
	return zero, false
}

// Err returns the error of s when it is Failed.
func Err[T any](s State[T]) error {
	if f, ok := s.(Failed[T]); ok {
		return f.Err
	}
	return nil
}
