package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is a generic sentinel for writes that collide with existing state.
	ErrConflict = errors.New("conflict")
)
