package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnreachable marks a concept that exists but has no intact
	// prerequisite chain from any root.
	ErrUnreachable = errors.New("unreachable")
)
