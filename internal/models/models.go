// Package models defines the shared domain types and the error taxonomy
// used across the stores, the service layer and the HTTP router.
package models

import "errors"

// URLRecord is a single short-alias mapping. OwnerID references the user
// whose session created the record; it may be empty when the record was
// created by an anonymous session.
type URLRecord struct {
	ShortID string `json:"short_id"`
	LongURL string `json:"long_url"`
	OwnerID string `json:"owner_id"`
}

// RegisterRequest carries the registration form fields. Only presence is
// validated; email format checks are out of scope.
type RegisterRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string
	Password string
}

// Domain errors. Handlers match them with errors.Is and map each to a
// single HTTP status.
var (
	// ErrValidation means a required field was missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a unique constraint was violated, e.g. a duplicate email.
	ErrConflict = errors.New("already exists")

	// ErrNotFound means the requested user or URL record is absent.
	ErrNotFound = errors.New("not found")

	// ErrAuth means the credentials did not match an existing user.
	ErrAuth = errors.New("invalid credentials")

	// ErrForbidden means the session user is authenticated but not the owner.
	ErrForbidden = errors.New("access denied")
)
