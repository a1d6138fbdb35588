package db

import "errors"

// Sentinel errors returned (wrapped) by ledger operations.
// Callers should test with errors.Is.
var (
	// ErrStorageUnavailable means the backing database file could not be
	// created, opened, or written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound means a referenced parent record does not exist.
	// Plain lookups that find nothing return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")

	// ErrValidation means a required field is missing or out of range.
	ErrValidation = errors.New("validation failed")

	// ErrSerialization means a structured document field could not be
	// round-tripped through JSON.
	ErrSerialization = errors.New("serialization failed")
)
