package store

import "errors"

// Common errors shared by the store implementations.
var (
	// ErrInvalidDelta rejects pointer moves other than one step.
	ErrInvalidDelta = errors.New("store: pointer delta must be -1 or +1")

	// ErrProjectExists rejects creating a project id twice.
	ErrProjectExists = errors.New("store: project already exists")

	// ErrInvalidAspectRatio rejects an unsupported aspect ratio.
	ErrInvalidAspectRatio = errors.New("store: invalid aspect ratio")
)
