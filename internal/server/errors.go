package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jobby/internal/jobsapi"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the status code a page reporting err is served with.
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var requestErr *jobsapi.RequestError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, jobsapi.ErrAuthMissing):
		return http.StatusUnauthorized
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &requestErr):
		if requestErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// loginMessage is the text shown under the login form for err.
func loginMessage(err error) string {
	var requestErr *jobsapi.RequestError
	if errors.As(err, &requestErr) && requestErr.StatusCode != 0 && requestErr.Message != "" {
		return requestErr.Message
	}
	return "Something went wrong, please try again"
}
