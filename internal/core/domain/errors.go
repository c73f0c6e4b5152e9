package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotInitialised indicates an operation was called before Init.
	ErrNotInitialised = errors.New("not initialised")

	// Element Source Errors.

	// ErrSourceUnavailable indicates the element source could not be reached
	// or answered with an unexpected status.
	ErrSourceUnavailable = errors.New("element source unavailable")

	// ErrRateLimited indicates the element source rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrStaleLoad indicates a page arrived after the load options changed.
	// The page is dropped rather than merged.
	ErrStaleLoad = errors.New("stale element load")

	// Selection Errors.

	// ErrSingleSelection indicates an operation that needs multi-selection
	// was applied to a single-selection filter.
	ErrSingleSelection = errors.New("operation not allowed for single selection")
)
