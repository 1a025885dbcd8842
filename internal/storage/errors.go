// ABOUTME: Sentinel errors shared by every storage backend
// ABOUTME: Callers match them with errors.Is regardless of backend

package storage

import "errors"

var (
	// ErrNotFound is returned when a requested entity or key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly is returned when attempting to write to a read-only store.
	ErrReadOnly = errors.New("storage is read-only")

	// ErrAmbiguousID is returned when an ID prefix matches more than one entity.
	ErrAmbiguousID = errors.New("ambiguous id")
)
