package repository

import "context"

// DocumentBackend persists the scheduler's single versioned document as an
// opaque byte blob. Every mutation in the system is a read-modify-write of
// the whole document, so the backend surface stays deliberately small.
type DocumentBackend interface {
	// Read returns the current document bytes, or ErrNotFound when no
	// document has been written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the document. Implementations must make the write as
	// atomic as the medium allows; partial documents must never be visible
	// to a subsequent Read.
	Write(ctx context.Context, data []byte) error

	// ReadLegacy returns the contents of the legacy standalone statistics
	// file, or ErrNotFound when there is none. Consumed once by migration.
	ReadLegacy(ctx context.Context) ([]byte, error)
}
