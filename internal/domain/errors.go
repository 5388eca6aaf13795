package domain

import "errors"

// Sentinel errors for the service layer. Handlers map these to HTTP status
// codes with errors.Is; anything else is treated as an internal error.
var (
	// ErrValidation covers malformed or missing required fields.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when signing up with an email that
	// already has an account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrAuthentication covers bad credentials and invalid or revoked
	// tokens.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound deliberately collapses "absent", "malformed id" and
	// "owned by someone else" so responses never leak whether a record
	// exists.
	ErrNotFound = errors.New("not found")
)
