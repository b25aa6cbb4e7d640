// Package types provides the records, enums and requests shared by the jobby client.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// LoginRequest represents the credentials posted to the upstream login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims surrounding whitespace from the username. Passwords are sent as typed.
func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
