package repository

import "errors"

var (
	// ErrNotFound is returned when a requested document or legacy blob doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrStorageRead is returned when the persisted document cannot be read
	ErrStorageRead = errors.New("storage read failed")

	// ErrStorageWrite is returned when the persisted document cannot be written
	ErrStorageWrite = errors.New("storage write failed")
)
