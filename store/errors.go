package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when an identifier is inserted twice.
	ErrDuplicateID = errors.New("store: duplicate image id")

	// ErrEmptyID is returned for an empty identifier.
	ErrEmptyID = errors.New("store: empty image id")

	// ErrEmptyDescriptor is returned for a zero-length descriptor.
	ErrEmptyDescriptor = errors.New("store: empty descriptor")
)

// FormatError reports a persisted database that could not be parsed or
// failed validation. The store is left unchanged.
type FormatError struct {
	Name string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("store: invalid database: %v", e.Err)
	}
	return fmt.Sprintf("store: invalid database %q: %v", e.Name, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
