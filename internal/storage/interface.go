package storage

import (
	"context"
	"io"
)

// DeleteResult distinguishes a real deletion from a file that was already
// gone; cleanup treats both as resolved.
type DeleteResult int

const (
	Deleted DeleteResult = iota
	AlreadyAbsent
)

// Service is the file-storage collaborator: payment proofs and member
// documents live behind it. Keys are opaque references stored on the
// owning records.
type Service interface {
	// Save writes the file under key, creating parent paths as needed.
	Save(ctx context.Context, key string, r io.Reader) error

	// Delete removes the file under key. A missing file reports
	// AlreadyAbsent with a nil error.
	Delete(ctx context.Context, key string) (DeleteResult, error)

	// Exists reports whether a file is present under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Open returns the file contents for download handlers.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
