package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// In particular, attaching text before registering a document fails
	// with this error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates invalid splitter parameters
	// (negative overlap, or overlap >= chunk size). This is a
	// configuration error: fatal at construction, never retried.
	ErrInvalidChunking = errors.New("invalid chunking configuration")
)
