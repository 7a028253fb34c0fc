package ports

import "github.com/pkg/errors"

// Standard collection errors
var (
	// ErrNotFound is returned when no entry matches the requested key
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidBody is returned when a body is rejected before it is stored
	ErrInvalidBody = errors.New("invalid body")

	// ErrNilCallback is returned when subscribing a nil callback or observer
	ErrNilCallback = errors.New("nil callback")

	// ErrKeyCollision is returned when the key generator keeps producing live keys
	ErrKeyCollision = errors.New("key collision")
)
