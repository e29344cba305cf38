package mediastore

import (
	"time"
)

// SortField selects the record field search results are ordered by.
type SortField string

// Sortable fields.
const (
	SortByUploadedAt SortField = "uploadedAt"
	SortBySize       SortField = "size"
	SortByFilename   SortField = "filename"

	// sortByOriginalName is an accepted alias for SortByFilename kept for
	// clients that still send the old parameter name.
	sortByOriginalName SortField = "originalName"
)

// SortOrder is the sort direction.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Pagination bounds.
const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Query is the effective filter/sort/pagination specification executed
// against the metadata store. It is always owner-scoped and is built from a
// SearchRequest by clamping out-of-range values; the clamped form is echoed
// back to clients so they can detect server-side adjustments.
type Query struct {
	Owner string `json:"-"`

	Name           string     `json:"name,omitempty"`
	Category       Category   `json:"category,omitempty"`
	MimeType       string     `json:"mimeType,omitempty"`
	MinSize        int64      `json:"minSize,omitempty"`
	MaxSize        int64      `json:"maxSize,omitempty"`
	UploadedAfter  *time.Time `json:"uploadedAfter,omitempty"`
	UploadedBefore *time.Time `json:"uploadedBefore,omitempty"`

	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	SortBy    SortField `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// Offset returns the number of records to skip for the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// buildQuery validates and clamps a search request into an executable query.
func buildQuery(owner string, req SearchRequest) Query {
	q := Query{
		Owner:          owner,
		Name:           req.Name,
		MimeType:       req.MimeType,
		MinSize:        req.MinSize,
		MaxSize:        req.MaxSize,
		UploadedAfter:  req.UploadedAfter,
		UploadedBefore: req.UploadedBefore,
		Page:           req.Page,
		Limit:          req.Limit,
	}

	switch Category(req.Category) {
	case CategoryImage, CategoryVideo, CategoryAudio, CategoryDocument, CategoryOther:
		q.Category = Category(req.Category)
	}

	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	} else if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.MinSize < 0 {
		q.MinSize = 0
	}
	if q.MaxSize < 0 {
		q.MaxSize = 0
	}

	switch SortField(req.SortBy) {
	case SortBySize, SortByFilename:
		q.SortBy = SortField(req.SortBy)
	case sortByOriginalName:
		q.SortBy = SortByFilename
	default:
		q.SortBy = SortByUploadedAt
	}
	switch SortOrder(req.SortOrder) {
	case SortAsc:
		q.SortOrder = SortAsc
	default:
		q.SortOrder = SortDesc
	}

	return q
}

// Pagination describes the position of a result page within the full match
// set.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	Limit           int   `json:"limit"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func paginate(q Query, total int64) Pagination {
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return Pagination{
		CurrentPage:     q.Page,
		Limit:           q.Limit,
		TotalItems:      total,
		TotalPages:      pages,
		HasNextPage:     q.Page < pages,
		HasPreviousPage: q.Page > 1 && total > 0,
	}
}
