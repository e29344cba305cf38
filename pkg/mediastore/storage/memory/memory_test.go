package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAndGet(t *testing.T) {
	backend := New()
	ctx := context.Background()

	err := backend.Upload(ctx, "uploads/u/a.jpg", strings.NewReader("payload"), "image/jpeg")
	require.NoError(t, err)

	data, ok := backend.Get("uploads/u/a.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)

	ct, ok := backend.ContentType("uploads/u/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	assert.Equal(t, 1, backend.Len())
}

func TestUploadDefaultsContentType(t *testing.T) {
	backend := New()

	require.NoError(t, backend.Upload(context.Background(), "k", strings.NewReader("x"), ""))

	ct, ok := backend.ContentType("k")
	require.True(t, ok)
	assert.Equal(t, "application/octet-stream", ct)
}

func TestDeleteAbsentKeySucceeds(t *testing.T) {
	backend := New()

	assert.NoError(t, backend.Delete(context.Background(), "never-written"))
}

func TestDeleteBatchCountsExistingOnly(t *testing.T) {
	backend := New()
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "a", strings.NewReader("1"), ""))
	require.NoError(t, backend.Upload(ctx, "b", strings.NewReader("2"), ""))

	removed, err := backend.DeleteBatch(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, backend.Len())
}

func TestPublicURL(t *testing.T) {
	backend := New()
	assert.Equal(t, "memory://uploads/u/a.jpg", backend.PublicURL("uploads/u/a.jpg"))
}
