package mediastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQueryDefaults(t *testing.T) {
	q := buildQuery("owner-1", SearchRequest{})

	assert.Equal(t, "owner-1", q.Owner)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, SortByUploadedAt, q.SortBy)
	assert.Equal(t, SortDesc, q.SortOrder)
	assert.Equal(t, 0, q.Offset())
}

func TestBuildQueryClamping(t *testing.T) {
	tests := []struct {
		name      string
		req       SearchRequest
		wantPage  int
		wantLimit int
	}{
		{"zero page", SearchRequest{Page: 0, Limit: 10}, 1, 10},
		{"negative page", SearchRequest{Page: -5, Limit: 10}, 1, 10},
		{"limit above max", SearchRequest{Page: 2, Limit: 1000}, 2, 100},
		{"zero limit", SearchRequest{Page: 3}, 3, 20},
		{"negative limit", SearchRequest{Page: 1, Limit: -1}, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := buildQuery("o", tt.req)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestBuildQueryDropsUnknownEnums(t *testing.T) {
	q := buildQuery("o", SearchRequest{
		Category:  "bogus",
		SortBy:    "bogus",
		SortOrder: "sideways",
	})

	assert.Empty(t, q.Category)
	assert.Equal(t, SortByUploadedAt, q.SortBy)
	assert.Equal(t, SortDesc, q.SortOrder)
}

func TestBuildQueryAcceptsOriginalNameAlias(t *testing.T) {
	q := buildQuery("o", SearchRequest{SortBy: "originalName"})

	assert.Equal(t, SortByFilename, q.SortBy)
}

func TestBuildQueryKeepsValidEnums(t *testing.T) {
	q := buildQuery("o", SearchRequest{
		Category:  "video",
		SortBy:    "size",
		SortOrder: "asc",
	})

	assert.Equal(t, CategoryVideo, q.Category)
	assert.Equal(t, SortBySize, q.SortBy)
	assert.Equal(t, SortAsc, q.SortOrder)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int64
		wantPages   int
		wantNext    bool
		wantPrev    bool
	}{
		{"first of many", 1, 10, 35, 4, true, false},
		{"middle page", 2, 10, 35, 4, true, true},
		{"last page", 4, 10, 35, 4, false, true},
		{"page two of fifteen at ten per page", 2, 10, 15, 2, false, true},
		{"empty result", 1, 20, 0, 0, false, false},
		{"past the end", 5, 10, 15, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paginate(Query{Page: tt.page, Limit: tt.limit}, tt.total)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.total, p.TotalItems)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNextPage)
			assert.Equal(t, tt.wantPrev, p.HasPreviousPage)
		})
	}
}
