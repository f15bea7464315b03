package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an absent product, order or case. Callers turn it into a suggestion.
	ErrNotFound = errors.New("not found")

	// ErrValidation aborts an operation without side effects.
	ErrValidation = errors.New("validation failed")
)

// PersistenceError reports that durable storage could not be read or written.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
