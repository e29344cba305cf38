package mediastore

import (
	"context"
)

// Service defines the media ingestion and lifecycle interface.
type Service interface {
	// Upload ingests a payload: classification, probing, preview
	// derivation, object writes, record insert.
	Upload(ctx context.Context, req UploadRequest) (*FileRecord, error)

	// Get fetches a single owner-scoped record.
	Get(ctx context.Context, owner, id string) (*FileRecord, error)

	// Search executes an owner-scoped filter/sort/pagination query.
	Search(ctx context.Context, owner string, req SearchRequest) (*SearchResult, error)

	// Delete removes one record and every physical object reconstructed
	// from its primary key.
	Delete(ctx context.Context, owner, id string) (*DeleteResult, error)

	// BulkDelete removes up to BulkDeleteMaxIDs records and their objects.
	BulkDelete(ctx context.Context, owner string, ids []string) (*BulkDeleteResult, error)
}
