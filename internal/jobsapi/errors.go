package jobsapi

import (
	"errors"
	"fmt"
)

// ErrAuthMissing is returned when a call is attempted without a session token.
// No request is sent in that case.
var ErrAuthMissing = errors.New("jobsapi: no session token")

// RequestError describes a failed call to the jobs API: a non-OK status,
// a transport failure or a body that could not be decoded.
type RequestError struct {
	Resource   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("jobsapi %s request failed", e.Resource)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// IsRequestFailed reports whether err is (or wraps) a RequestError.
func IsRequestFailed(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
