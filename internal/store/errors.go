package store

import "errors"

// Sentinel errors returned by store operations.
var (
	// ErrNotFound indicates the referenced record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalid indicates a caller-supplied field failed validation,
	// such as a blank folder name.
	ErrInvalid = errors.New("invalid record fields")
)
