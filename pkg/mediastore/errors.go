package mediastore

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUnauthorized indicates a missing or invalid owner identity.
	ErrUnauthorized = errors.New("missing or invalid owner identity")

	// ErrNoFile indicates an upload request without a payload.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge indicates a payload above the maximum upload size.
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")

	// ErrUnsupportedType indicates a category that is not eligible for
	// ingestion (anything outside image/video/audio).
	ErrUnsupportedType = errors.New("unsupported media type")

	// ErrInvalidID indicates a malformed record identifier.
	ErrInvalidID = errors.New("invalid file id")

	// ErrBatchTooLarge indicates a bulk delete request above the id cap.
	ErrBatchTooLarge = errors.New("bulk delete batch exceeds limit")

	// ErrNotFound indicates a record that is absent or not owned by the
	// requester. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("file not found")
)

// StorageError represents a failed object-store operation.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PersistenceError represents a failed metadata-store operation. On the
// ingestion path this is the one failure that can leave orphaned objects
// behind, so callers log it distinctly.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("metadata operation %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
