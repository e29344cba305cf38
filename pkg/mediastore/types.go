package mediastore

import (
	"time"
)

// Category classifies an uploaded payload. It is fixed at ingestion time and
// never recomputed afterwards; preview derivation and delete-time key
// reconstruction both dispatch on it.
type Category string

// Media categories (closed set).
const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
	CategoryOther    Category = "other"
)

// Upload limits.
const (
	// MaxUploadSize is the maximum accepted payload size (100 MiB).
	MaxUploadSize = 100 << 20

	// BulkDeleteMaxIDs caps the number of ids accepted by a single bulk
	// delete request.
	BulkDeleteMaxIDs = 100

	// DeleteBatchSize is the maximum number of keys submitted to the object
	// store in one batch-delete call.
	DeleteBatchSize = 1000
)

// FileDetails duplicates selected record fields in a nested structure for
// client convenience. It must stay consistent with the top-level fields.
type FileDetails struct {
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Src      string  `json:"src"`
	Preview  string  `json:"preview"`
}

// FileRecord represents one logical uploaded file. A record owns one or more
// physical objects in the object store: the original at PrimaryKey and, for
// images and videos with a distinct derivative, a preview/poster object whose
// key is re-derived from PrimaryKey rather than persisted.
type FileRecord struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	MimeType string   `json:"mimeType"`
	Category Category `json:"category"`
	Size     int64    `json:"size"`

	// PrimaryKey is the storage key of the original object. It is the only
	// key persisted; derivative keys are reconstructed from it.
	PrimaryKey string `json:"s3Key"`

	Src     string      `json:"src"`
	Preview string      `json:"preview"`
	Details FileDetails `json:"details"`

	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// HasDerivedPreview reports whether the record points at a derivative object
// distinct from the original.
func (r *FileRecord) HasDerivedPreview() bool {
	return r.Preview != "" && r.Preview != r.Src
}

// Meta holds intrinsic properties extracted from a payload by the prober.
// Absent properties are zero-valued; probing is best-effort.
type Meta struct {
	MimeType string
	Width    int
	Height   int
	Duration float64
}

// Derived is a generated preview or poster buffer produced by the deriver.
// Width and Height are the derivative's own pixel dimensions; records expose
// them so clients size what they actually render.
type Derived struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// FileSummary is the compact record shape echoed by delete operations.
type FileSummary struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Category Category `json:"category"`
	Size     int64    `json:"size"`
}

func summaryOf(r *FileRecord) FileSummary {
	return FileSummary{
		ID:       r.ID,
		Filename: r.Filename,
		Category: r.Category,
		Size:     r.Size,
	}
}
