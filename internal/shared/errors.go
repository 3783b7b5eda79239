package shared

import "errors"

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput indicates a cart operation on an unidentifiable item.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoFields indicates an update request that changes nothing.
	ErrNoFields = errors.New("no fields to update")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the caller lacks the admin capability.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a request without an authenticated session.
	ErrUnauthorized = errors.New("unauthorized")
)
