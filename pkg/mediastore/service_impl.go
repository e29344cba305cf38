package mediastore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/creativ-studio/media-store/pkg/mediastore/objectkey"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object store gateway for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// derivativeRole maps a category to its derivative key role. Empty means the
// category never has a distinct derivative object.
func derivativeRole(category Category) string {
	switch category {
	case CategoryImage:
		return objectkey.RolePreview
	case CategoryVideo:
		return objectkey.RolePoster
	default:
		return ""
	}
}

// candidateKeys reconstructs every physical key belonging to a record. The
// set always includes the primary key and, for image/video, the role-tagged
// derivative key, whether or not a derivative was ever written: deleting an
// absent key is tolerated and cheaper than tracking which records have one.
func candidateKeys(record *FileRecord) []string {
	return objectkey.Reconstruct(record.PrimaryKey, derivativeRole(record.Category))
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*FileRecord, error) {
	if req.OwnerID == "" {
		return nil, ErrUnauthorized
	}
	if len(req.Data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(req.Data)) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	meta := Probe(ctx, req.Data)

	// Signature detection wins; the client declaration only breaks a
	// generic-binary tie.
	mimeType := meta.MimeType
	if (mimeType == "" || mimeType == "application/octet-stream") && req.DeclaredMimeType != "" {
		mimeType = req.DeclaredMimeType
	}

	category := Classify(mimeType, req.Filename)
	switch category {
	case CategoryImage, CategoryVideo, CategoryAudio:
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, category, mimeType)
	}

	derived, err := DerivePreview(ctx, category, req.Data)
	if err != nil {
		// Derivation failure is not fatal; the original serves as its own
		// preview.
		s.logger.Warn("preview derivation failed, reusing original",
			"filename", req.Filename, "category", category, "error", err)
		derived = nil
	}

	fileID := uuid.New()
	now := time.Now().UTC()
	primaryKey := objectkey.ForOriginal(req.OwnerID, fileID, req.Filename, now)

	if err := s.blobStore.Upload(ctx, primaryKey, bytes.NewReader(req.Data), mimeType); err != nil {
		return nil, &StorageError{Key: primaryKey, Op: "put", Err: err}
	}
	written := []string{primaryKey}

	src := s.blobStore.PublicURL(primaryKey)
	preview := src

	if derived != nil {
		previewKey, kerr := objectkey.ForDerivative(primaryKey, derivativeRole(category))
		if kerr != nil {
			// Cannot happen for keys this service just built.
			return nil, fmt.Errorf("derive preview key: %w", kerr)
		}
		if err := s.blobStore.Upload(ctx, previewKey, bytes.NewReader(derived.Data), derived.MimeType); err != nil {
			s.reclaim(ctx, written)
			return nil, &StorageError{Key: previewKey, Op: "put", Err: err}
		}
		written = append(written, previewKey)
		preview = s.blobStore.PublicURL(previewKey)
	}

	// Details describe what clients render: the derivative's dimensions when
	// one exists, the original's otherwise. Duration always comes from the
	// original probe.
	width, height := meta.Width, meta.Height
	if derived != nil && derived.Width > 0 {
		width, height = derived.Width, derived.Height
	}

	record := &FileRecord{
		Filename:   req.Filename,
		MimeType:   mimeType,
		Category:   category,
		Size:       int64(len(req.Data)),
		PrimaryKey: primaryKey,
		Src:        src,
		Preview:    preview,
		Details: FileDetails{
			Width:    width,
			Height:   height,
			Duration: meta.Duration,
			Src:      src,
			Preview:  preview,
		},
		UploadedBy: req.OwnerID,
		UploadedAt: now,
	}

	if err := s.repository.CreateFile(ctx, record); err != nil {
		// The objects are already in the store. Reclaim them so the insert
		// failure does not leak storage; if reclaiming also fails the keys
		// are logged for out-of-band reconciliation.
		s.logger.Error("record insert failed after object writes",
			"owner", req.OwnerID, "keys", written, "error", err)
		s.reclaim(ctx, written)
		return nil, &PersistenceError{Op: "insert", Err: err}
	}

	return record, nil
}

// reclaim best-effort deletes objects written by an ingestion that cannot
// complete. Keys that survive a failed reclaim are orphaned and logged so
// they can be reconciled out-of-band.
func (s *service) reclaim(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobStore.Delete(ctx, key); err != nil {
			s.logger.Error("orphaned object: reclaim delete failed", "key", key, "error", err)
		}
	}
}

func (s *service) Get(ctx context.Context, owner, id string) (*FileRecord, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}
	return s.repository.GetFile(ctx, id, owner)
}

func (s *service) Search(ctx context.Context, owner string, req SearchRequest) (*SearchResult, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	q := buildQuery(owner, req)
	items, total, err := s.repository.FindFiles(ctx, q)
	if err != nil {
		return nil, &PersistenceError{Op: "find", Err: err}
	}
	if items == nil {
		items = []*FileRecord{}
	}

	return &SearchResult{
		Items:      items,
		Pagination: paginate(q, total),
		Filters:    q,
	}, nil
}

func (s *service) Delete(ctx context.Context, owner, id string) (*DeleteResult, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	record, err := s.repository.GetFile(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	keys := candidateKeys(record)

	// Object deletions run concurrently and are individually best-effort: a
	// missing derivative is not an error, and a failed object delete never
	// blocks removal of the metadata record.
	var g errgroup.Group
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if err := s.blobStore.Delete(ctx, key); err != nil {
				s.logger.Warn("object delete failed, continuing", "key", key, "error", err)
			}
			return nil
		})
	}
	g.Wait()

	if err := s.repository.DeleteFile(ctx, record.ID, owner); err != nil {
		return nil, err
	}

	return &DeleteResult{
		Deleted:      summaryOf(record),
		TargetedKeys: keys,
	}, nil
}

func (s *service) BulkDelete(ctx context.Context, owner string, ids []string) (*BulkDeleteResult, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty id list", ErrInvalidID)
	}
	if len(ids) > BulkDeleteMaxIDs {
		return nil, fmt.Errorf("%w: %d ids (max %d)", ErrBatchTooLarge, len(ids), BulkDeleteMaxIDs)
	}

	// Fail the whole batch before any lookup if a single id is malformed.
	for _, id := range ids {
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}

	// Ids that are absent or owned by someone else are silently excluded.
	records, err := s.repository.GetFilesByIDs(ctx, ids, owner)
	if err != nil {
		return nil, &PersistenceError{Op: "find", Err: err}
	}

	result := &BulkDeleteResult{Removed: make([]FileSummary, 0, len(records))}
	if len(records) == 0 {
		return result, nil
	}

	foundIDs := make([]string, 0, len(records))
	var keys []string
	for _, record := range records {
		foundIDs = append(foundIDs, record.ID)
		keys = append(keys, candidateKeys(record)...)
		result.Removed = append(result.Removed, summaryOf(record))
	}

	// Batches are issued concurrently; per-batch failures are tolerated and
	// the confirmed-deleted counts are summed, so the aggregate is
	// deterministic regardless of completion order.
	var (
		mu      sync.Mutex
		removed int
		g       errgroup.Group
	)
	for _, batch := range chunkKeys(keys, DeleteBatchSize) {
		batch := batch
		g.Go(func() error {
			n, err := s.blobStore.DeleteBatch(ctx, batch)
			if err != nil {
				s.logger.Warn("object batch delete failed, continuing",
					"batch_size", len(batch), "error", err)
			}
			mu.Lock()
			removed += n
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	result.ObjectsRemoved = removed

	// Metadata records go last so a crash mid-delete leaves at worst
	// orphaned objects, never records pointing at removed objects.
	count, err := s.repository.DeleteFiles(ctx, foundIDs, owner)
	if err != nil {
		return nil, &PersistenceError{Op: "delete_many", Err: err}
	}
	result.RecordsRemoved = count

	return result, nil
}

func chunkKeys(keys []string, size int) [][]string {
	var chunks [][]string
	for len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}
	return chunks
}
