package types

import "errors"

// Sentinel domain errors. Services wrap these with fmt.Errorf("...: %w", ...)
// and handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrBadRequest      = errors.New("invalid input")
	ErrInternal        = errors.New("internal server error")
)
