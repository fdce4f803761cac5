package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision on create.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError reports a rejected input field. Kind is the sentinel callers match with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string, kind error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Kind: kind}
}
