package memory

import (
	"context"
	"io"
	"sync"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

// Backend is an in-memory implementation of the mediastore.BlobStore
// interface, used by tests and local development.
type Backend struct {
	mu          sync.RWMutex
	objects     map[string][]byte
	contentType map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
	}
}

var _ mediastore.BlobStore = (*Backend)(nil)

// Upload stores an object under the given key
func (b *Backend) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.contentType[key] = contentType
	return nil
}

// Delete removes an object. Deleting an absent key succeeds, matching
// S3-compatible semantics.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	delete(b.contentType, key)
	return nil
}

// DeleteBatch removes a set of keys and returns how many existed.
func (b *Backend) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if _, ok := b.objects[key]; ok {
			removed++
		}
		delete(b.objects, key)
		delete(b.contentType, key)
	}
	return removed, nil
}

// PublicURL returns a synthetic URL for a stored key
func (b *Backend) PublicURL(key string) string {
	return "memory://" + key
}

// Get returns a stored object's bytes, for test assertions.
func (b *Backend) Get(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.objects[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// ContentType returns a stored object's content type, for test assertions.
func (b *Backend) ContentType(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ct, ok := b.contentType[key]
	return ct, ok
}

// Len returns the number of stored objects, for test assertions.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.objects)
}
