package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

func seedRecord(t *testing.T, repo *Repository, owner, filename string, category mediastore.Category, size int64, at time.Time) *mediastore.FileRecord {
	t.Helper()

	record := &mediastore.FileRecord{
		Filename:   filename,
		MimeType:   "image/jpeg",
		Category:   category,
		Size:       size,
		PrimaryKey: "uploads/" + owner + "/" + filename,
		UploadedBy: owner,
		UploadedAt: at,
	}
	require.NoError(t, repo.CreateFile(context.Background(), record))
	require.NotEmpty(t, record.ID)
	return record
}

func TestCreateAndGetFile(t *testing.T) {
	repo := New()
	ctx := context.Background()

	record := seedRecord(t, repo, "owner-1", "a.jpg", mediastore.CategoryImage, 100, time.Now())

	got, err := repo.GetFile(ctx, record.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "a.jpg", got.Filename)

	// Returned records are copies; mutating one must not leak into storage.
	got.Filename = "mutated"
	again, err := repo.GetFile(ctx, record.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", again.Filename)
}

func TestGetFileErrors(t *testing.T) {
	repo := New()
	ctx := context.Background()

	record := seedRecord(t, repo, "owner-1", "a.jpg", mediastore.CategoryImage, 100, time.Now())

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.GetFile(ctx, "nope", "owner-1")
		assert.ErrorIs(t, err, mediastore.ErrInvalidID)
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := repo.GetFile(ctx, primitive.NewObjectID().Hex(), "owner-1")
		assert.ErrorIs(t, err, mediastore.ErrNotFound)
	})

	t.Run("wrong owner", func(t *testing.T) {
		_, err := repo.GetFile(ctx, record.ID, "owner-2")
		assert.ErrorIs(t, err, mediastore.ErrNotFound)
	})
}

func TestFindFilesFilters(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	seedRecord(t, repo, "owner-1", "holiday.jpg", mediastore.CategoryImage, 500, base)
	seedRecord(t, repo, "owner-1", "Holiday-2.jpg", mediastore.CategoryImage, 1500, base.Add(time.Hour))
	seedRecord(t, repo, "owner-1", "clip.mp4", mediastore.CategoryVideo, 5000, base.Add(2*time.Hour))
	seedRecord(t, repo, "owner-2", "holiday.jpg", mediastore.CategoryImage, 500, base)

	find := func(q mediastore.Query) ([]*mediastore.FileRecord, int64) {
		if q.Page == 0 {
			q.Page = 1
		}
		if q.Limit == 0 {
			q.Limit = 20
		}
		records, total, err := repo.FindFiles(ctx, q)
		require.NoError(t, err)
		return records, total
	}

	t.Run("owner scoping", func(t *testing.T) {
		_, total := find(mediastore.Query{Owner: "owner-1"})
		assert.Equal(t, int64(3), total)
	})

	t.Run("name is case-insensitive substring", func(t *testing.T) {
		records, total := find(mediastore.Query{Owner: "owner-1", Name: "holiday"})
		assert.Equal(t, int64(2), total)
		for _, r := range records {
			assert.Contains(t, []string{"holiday.jpg", "Holiday-2.jpg"}, r.Filename)
		}
	})

	t.Run("category", func(t *testing.T) {
		records, total := find(mediastore.Query{Owner: "owner-1", Category: mediastore.CategoryVideo})
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "clip.mp4", records[0].Filename)
	})

	t.Run("size range", func(t *testing.T) {
		_, total := find(mediastore.Query{Owner: "owner-1", MinSize: 1000, MaxSize: 2000})
		assert.Equal(t, int64(1), total)
	})

	t.Run("date range", func(t *testing.T) {
		after := base.Add(30 * time.Minute)
		before := base.Add(90 * time.Minute)
		records, total := find(mediastore.Query{Owner: "owner-1", UploadedAfter: &after, UploadedBefore: &before})
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Holiday-2.jpg", records[0].Filename)
	})
}

func TestFindFilesSortAndPage(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, filename := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		seedRecord(t, repo, "owner-1", filename, mediastore.CategoryImage, int64(100*(i+1)), base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("newest first by default", func(t *testing.T) {
		records, _, err := repo.FindFiles(ctx, mediastore.Query{
			Owner: "owner-1", Page: 1, Limit: 20,
			SortBy: mediastore.SortByUploadedAt, SortOrder: mediastore.SortDesc,
		})
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, "e.jpg", records[0].Filename)
		assert.Equal(t, "a.jpg", records[4].Filename)
	})

	t.Run("size ascending", func(t *testing.T) {
		records, _, err := repo.FindFiles(ctx, mediastore.Query{
			Owner: "owner-1", Page: 1, Limit: 20,
			SortBy: mediastore.SortBySize, SortOrder: mediastore.SortAsc,
		})
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, int64(100), records[0].Size)
		assert.Equal(t, int64(500), records[4].Size)
	})

	t.Run("second page", func(t *testing.T) {
		records, total, err := repo.FindFiles(ctx, mediastore.Query{
			Owner: "owner-1", Page: 2, Limit: 2,
			SortBy: mediastore.SortByFilename, SortOrder: mediastore.SortAsc,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, records, 2)
		assert.Equal(t, "c.jpg", records[0].Filename)
		assert.Equal(t, "d.jpg", records[1].Filename)
	})

	t.Run("page past the end", func(t *testing.T) {
		records, total, err := repo.FindFiles(ctx, mediastore.Query{
			Owner: "owner-1", Page: 9, Limit: 10,
			SortBy: mediastore.SortByUploadedAt, SortOrder: mediastore.SortDesc,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Empty(t, records)
	})
}

func TestGetFilesByIDs(t *testing.T) {
	repo := New()
	ctx := context.Background()

	a := seedRecord(t, repo, "owner-1", "a.jpg", mediastore.CategoryImage, 100, time.Now())
	b := seedRecord(t, repo, "owner-1", "b.jpg", mediastore.CategoryImage, 100, time.Now())
	foreign := seedRecord(t, repo, "owner-2", "c.jpg", mediastore.CategoryImage, 100, time.Now())

	records, err := repo.GetFilesByIDs(ctx, []string{a.ID, b.ID, foreign.ID, primitive.NewObjectID().Hex()}, "owner-1")
	require.NoError(t, err)

	// Foreign and absent ids are silently excluded.
	assert.Len(t, records, 2)
}

func TestDeleteFile(t *testing.T) {
	repo := New()
	ctx := context.Background()

	record := seedRecord(t, repo, "owner-1", "a.jpg", mediastore.CategoryImage, 100, time.Now())

	assert.ErrorIs(t, repo.DeleteFile(ctx, record.ID, "owner-2"), mediastore.ErrNotFound)

	require.NoError(t, repo.DeleteFile(ctx, record.ID, "owner-1"))

	_, err := repo.GetFile(ctx, record.ID, "owner-1")
	assert.ErrorIs(t, err, mediastore.ErrNotFound)
}

func TestDeleteFilesCountsOwnedOnly(t *testing.T) {
	repo := New()
	ctx := context.Background()

	a := seedRecord(t, repo, "owner-1", "a.jpg", mediastore.CategoryImage, 100, time.Now())
	b := seedRecord(t, repo, "owner-1", "b.jpg", mediastore.CategoryImage, 100, time.Now())
	foreign := seedRecord(t, repo, "owner-2", "c.jpg", mediastore.CategoryImage, 100, time.Now())

	removed, err := repo.DeleteFiles(ctx, []string{a.ID, b.ID, foreign.ID, primitive.NewObjectID().Hex()}, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// The foreign record survives.
	_, err = repo.GetFile(ctx, foreign.ID, "owner-2")
	assert.NoError(t, err)
}
