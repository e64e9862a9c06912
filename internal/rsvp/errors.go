package rsvp

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound means the token or event id is unknown.
	ErrNotFound = errors.New("invitation not found")
	// ErrInvalidResponse means the response value is neither confirmed nor declined.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrAlreadyResponded means a manual reminder was requested for an
	// invitation that already has a terminal answer.
	ErrAlreadyResponded = errors.New("invitation already responded")
)

// ValidationError reports the first missing required field of a create
// request. It is always surfaced to the caller and never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Field)
}

// StoreError wraps an underlying persistence failure. The core reports these
// upward without retrying; retry policy belongs to the storage collaborator.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
