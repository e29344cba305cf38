package mediastore

import "time"

// Request/Response DTOs

// UploadRequest contains parameters for ingesting a new file.
type UploadRequest struct {
	OwnerID  string
	Filename string
	Data     []byte

	// DeclaredMimeType is the client-supplied content type, used only when
	// signature detection yields a generic binary type.
	DeclaredMimeType string
}

// SearchRequest contains raw, user-supplied search parameters. Out-of-range
// values are clamped rather than rejected; the effective query is echoed in
// the result.
type SearchRequest struct {
	Name           string
	Category       string
	MimeType       string
	MinSize        int64
	MaxSize        int64
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
	Page           int
	Limit          int
	SortBy         string
	SortOrder      string
}

// SearchResult is a page of matching records plus the effective query that
// produced it.
type SearchResult struct {
	Items      []*FileRecord `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Filters    Query         `json:"filters"`
}

// DeleteResult reports a single-file delete: the removed record and every
// physical key the delete targeted.
type DeleteResult struct {
	Deleted      FileSummary `json:"deleted"`
	TargetedKeys []string    `json:"targetedKeys"`
}

// BulkDeleteResult reports a bulk delete. RecordsRemoved and ObjectsRemoved
// may legitimately diverge: object deletions are best-effort per batch while
// record removal is a single scoped operation.
type BulkDeleteResult struct {
	RecordsRemoved int64         `json:"recordsRemoved"`
	ObjectsRemoved int           `json:"objectsRemoved"`
	Removed        []FileSummary `json:"removed"`
}
