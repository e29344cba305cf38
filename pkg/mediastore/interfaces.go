package mediastore

import (
	"context"
	"io"
)

// BlobStore defines the object store boundary: put, delete, batch delete and
// public URL resolution for stored keys.
type BlobStore interface {
	// Upload writes an object under the given key.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes a single object. Deleting an absent key is not an
	// error on S3-compatible stores and callers tolerate per-key failures.
	Delete(ctx context.Context, key string) error

	// DeleteBatch removes up to DeleteBatchSize keys in one call and
	// returns the number of keys confirmed removed.
	DeleteBatch(ctx context.Context, keys []string) (int, error)

	// PublicURL returns the public URL for a stored key.
	PublicURL(key string) string
}

// Repository defines the metadata document-store boundary. Every read and
// delete is scoped by owner; a record that exists but is owned by someone
// else behaves exactly like one that does not exist.
type Repository interface {
	// CreateFile inserts a record and assigns its ID.
	CreateFile(ctx context.Context, record *FileRecord) error

	// GetFile fetches a record scoped by owner. Returns ErrNotFound when
	// the record is absent or not owned, ErrInvalidID on a malformed id.
	GetFile(ctx context.Context, id, owner string) (*FileRecord, error)

	// FindFiles executes a validated query and returns the matching page
	// together with the total match count.
	FindFiles(ctx context.Context, q Query) ([]*FileRecord, int64, error)

	// GetFilesByIDs fetches the owned subset of the given ids. Ids that are
	// absent or not owned are silently excluded.
	GetFilesByIDs(ctx context.Context, ids []string, owner string) ([]*FileRecord, error)

	// DeleteFile removes a record scoped by id and owner.
	DeleteFile(ctx context.Context, id, owner string) error

	// DeleteFiles removes all given records scoped by owner in one
	// operation and returns the number removed.
	DeleteFiles(ctx context.Context, ids []string, owner string) (int64, error)
}
