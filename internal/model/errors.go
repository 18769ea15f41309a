package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Account errors
	ErrUnknownUser        = errors.New("unknown user")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors
	ErrNoBoundAccount  = errors.New("no account bound to this address")
	ErrAddressMismatch = errors.New("caller address does not match bound address")

	// Game record errors
	ErrNoGameRecords     = errors.New("no game records available")
	ErrInvalidGameRecord = errors.New("game record must be a JSON object or array")
)

// ValidationError reports missing or malformed caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Required returns a ValidationError for a missing field
func Required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

// TooLong returns a ValidationError for a field over its size limit
func TooLong(field string, limit int) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d bytes", limit)}
}
