package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing required field or argument. The store is
	// left unchanged when it is returned.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup or delete of an id with no matching row.
	ErrNotFound = errors.New("record not found")
	// ErrStorageUnavailable marks a store file that could not be opened or
	// initialized.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError builds an ErrValidation with the offending field named.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
