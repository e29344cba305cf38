package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

// Repository is an in-memory implementation of mediastore.Repository, used
// by tests and local development. Record ids use the same ObjectID-hex shape
// as the mongo repository so id validation behaves identically.
type Repository struct {
	mu    sync.RWMutex
	files map[string]*mediastore.FileRecord
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		files: make(map[string]*mediastore.FileRecord),
	}
}

var _ mediastore.Repository = (*Repository)(nil)

func (r *Repository) CreateFile(ctx context.Context, record *mediastore.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	stored := *record
	r.files[record.ID] = &stored
	return nil
}

func (r *Repository) GetFile(ctx context.Context, id, owner string) (*mediastore.FileRecord, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, mediastore.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.files[id]
	if !ok || record.UploadedBy != owner {
		return nil, mediastore.ErrNotFound
	}
	out := *record
	return &out, nil
}

func (r *Repository) FindFiles(ctx context.Context, q mediastore.Query) ([]*mediastore.FileRecord, int64, error) {
	r.mu.RLock()
	var matches []*mediastore.FileRecord
	for _, record := range r.files {
		if matchesQuery(record, q) {
			out := *record
			matches = append(matches, &out)
		}
	}
	r.mu.RUnlock()

	sortRecords(matches, q.SortBy, q.SortOrder)

	total := int64(len(matches))
	start := q.Offset()
	if start > len(matches) {
		start = len(matches)
	}
	end := start + q.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func (r *Repository) GetFilesByIDs(ctx context.Context, ids []string, owner string) ([]*mediastore.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*mediastore.FileRecord
	for _, id := range ids {
		record, ok := r.files[id]
		if !ok || record.UploadedBy != owner {
			continue
		}
		out := *record
		records = append(records, &out)
	}
	return records, nil
}

func (r *Repository) DeleteFile(ctx context.Context, id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.files[id]
	if !ok || record.UploadedBy != owner {
		return mediastore.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *Repository) DeleteFiles(ctx context.Context, ids []string, owner string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for _, id := range ids {
		record, ok := r.files[id]
		if !ok || record.UploadedBy != owner {
			continue
		}
		delete(r.files, id)
		removed++
	}
	return removed, nil
}

func matchesQuery(record *mediastore.FileRecord, q mediastore.Query) bool {
	if record.UploadedBy != q.Owner {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(record.Filename), strings.ToLower(q.Name)) {
		return false
	}
	if q.Category != "" && record.Category != q.Category {
		return false
	}
	if q.MimeType != "" && record.MimeType != q.MimeType {
		return false
	}
	if q.MinSize > 0 && record.Size < q.MinSize {
		return false
	}
	if q.MaxSize > 0 && record.Size > q.MaxSize {
		return false
	}
	if q.UploadedAfter != nil && record.UploadedAt.Before(*q.UploadedAfter) {
		return false
	}
	if q.UploadedBefore != nil && record.UploadedAt.After(*q.UploadedBefore) {
		return false
	}
	return true
}

func sortRecords(records []*mediastore.FileRecord, by mediastore.SortField, order mediastore.SortOrder) {
	less := func(a, b *mediastore.FileRecord) bool {
		switch by {
		case mediastore.SortBySize:
			if a.Size != b.Size {
				return a.Size < b.Size
			}
		case mediastore.SortByFilename:
			if a.Filename != b.Filename {
				return a.Filename < b.Filename
			}
		default:
			if !a.UploadedAt.Equal(b.UploadedAt) {
				return a.UploadedAt.Before(b.UploadedAt)
			}
		}
		// Stable tiebreak so paging is deterministic.
		return a.ID < b.ID
	}

	sort.Slice(records, func(i, j int) bool {
		if order == mediastore.SortDesc {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}
