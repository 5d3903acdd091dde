package history

import "errors"

// Common errors for history machine operations.
var (
	// ErrNotInitialized is returned by cursor-dependent methods when
	// Init has never been called on the machine.
	ErrNotInitialized = errors.New("history: machine not initialized")

	// ErrEmptyState rejects a push of the zero snapshot.
	ErrEmptyState = errors.New("history: cannot push empty state")
)
