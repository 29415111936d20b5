package engine

import (
	"errors"
	"fmt"
)

// NotFoundError reports a stale reference: an id that no longer resolves.
// Callers treat this as a normal, recoverable outcome (skip + report), never
// a crash; a handle can go stale whenever a cascading delete ran elsewhere.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func errNotFound(kind, id string) error {
	return NotFoundError{Kind: kind, ID: id}
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
