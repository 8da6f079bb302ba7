package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the targeted key or id is absent from the current snapshot.
	ErrNotFound = errors.New("not found")
	// ErrStore indicates a write to the backing store failed.
	ErrStore = errors.New("store write failed")
)

// ValidationError reports a missing or malformed required input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a field-level validation failure.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// WrapStore tags a transport failure with ErrStore so handlers can map it.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStore, err)
}
