// Package mongo provides the document-store implementation of
// mediastore.Repository on top of the official MongoDB driver.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

const filesCollection = "files"

// Repository persists file records in a MongoDB collection.
type Repository struct {
	files *mongo.Collection
}

// New creates a repository bound to the given database.
func New(db *mongo.Database) *Repository {
	return &Repository{
		files: db.Collection(filesCollection),
	}
}

var _ mediastore.Repository = (*Repository)(nil)

// fileDoc is the persisted document shape. The core FileRecord stays
// store-agnostic with a hex string id; conversion happens here.
type fileDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Filename   string             `bson:"filename"`
	MimeType   string             `bson:"mimeType"`
	Category   string             `bson:"category"`
	Size       int64              `bson:"size"`
	S3Key      string             `bson:"s3Key"`
	Src        string             `bson:"src"`
	Preview    string             `bson:"preview"`
	Details    detailsDoc         `bson:"details"`
	UploadedBy string             `bson:"uploadedBy"`
	UploadedAt time.Time          `bson:"uploadedAt"`
}

type detailsDoc struct {
	Width    int     `bson:"width,omitempty"`
	Height   int     `bson:"height,omitempty"`
	Duration float64 `bson:"duration,omitempty"`
	Src      string  `bson:"src"`
	Preview  string  `bson:"preview"`
}

func toDoc(r *mediastore.FileRecord) *fileDoc {
	return &fileDoc{
		Filename: r.Filename,
		MimeType: r.MimeType,
		Category: string(r.Category),
		Size:     r.Size,
		S3Key:    r.PrimaryKey,
		Src:      r.Src,
		Preview:  r.Preview,
		Details: detailsDoc{
			Width:    r.Details.Width,
			Height:   r.Details.Height,
			Duration: r.Details.Duration,
			Src:      r.Details.Src,
			Preview:  r.Details.Preview,
		},
		UploadedBy: r.UploadedBy,
		UploadedAt: r.UploadedAt,
	}
}

func (d *fileDoc) toRecord() *mediastore.FileRecord {
	return &mediastore.FileRecord{
		ID:         d.ID.Hex(),
		Filename:   d.Filename,
		MimeType:   d.MimeType,
		Category:   mediastore.Category(d.Category),
		Size:       d.Size,
		PrimaryKey: d.S3Key,
		Src:        d.Src,
		Preview:    d.Preview,
		Details: mediastore.FileDetails{
			Width:    d.Details.Width,
			Height:   d.Details.Height,
			Duration: d.Details.Duration,
			Src:      d.Details.Src,
			Preview:  d.Details.Preview,
		},
		UploadedBy: d.UploadedBy,
		UploadedAt: d.UploadedAt,
	}
}

func (r *Repository) CreateFile(ctx context.Context, record *mediastore.FileRecord) error {
	res, err := r.files.InsertOne(ctx, toDoc(record))
	if err != nil {
		return fmt.Errorf("insert file record: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	record.ID = oid.Hex()
	return nil
}

func (r *Repository) GetFile(ctx context.Context, id, owner string) (*mediastore.FileRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mediastore.ErrInvalidID
	}

	var doc fileDoc
	err = r.files.FindOne(ctx, bson.M{"_id": oid, "uploadedBy": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, mediastore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find file record: %w", err)
	}
	return doc.toRecord(), nil
}

func (r *Repository) FindFiles(ctx context.Context, q mediastore.Query) ([]*mediastore.FileRecord, int64, error) {
	filter := filterFor(q)

	total, err := r.files.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count file records: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit)).
		SetSort(sortFor(q))

	cur, err := r.files.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find file records: %w", err)
	}
	defer cur.Close(ctx)

	var records []*mediastore.FileRecord
	for cur.Next(ctx) {
		var doc fileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode file record: %w", err)
		}
		records = append(records, doc.toRecord())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate file records: %w", err)
	}

	return records, total, nil
}

func (r *Repository) GetFilesByIDs(ctx context.Context, ids []string, owner string) ([]*mediastore.FileRecord, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, mediastore.ErrInvalidID
		}
		oids = append(oids, oid)
	}

	cur, err := r.files.Find(ctx, bson.M{
		"_id":        bson.M{"$in": oids},
		"uploadedBy": owner,
	})
	if err != nil {
		return nil, fmt.Errorf("find file records: %w", err)
	}
	defer cur.Close(ctx)

	var records []*mediastore.FileRecord
	for cur.Next(ctx) {
		var doc fileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode file record: %w", err)
		}
		records = append(records, doc.toRecord())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate file records: %w", err)
	}
	return records, nil
}

func (r *Repository) DeleteFile(ctx context.Context, id, owner string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mediastore.ErrInvalidID
	}

	res, err := r.files.DeleteOne(ctx, bson.M{"_id": oid, "uploadedBy": owner})
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if res.DeletedCount == 0 {
		return mediastore.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteFiles(ctx context.Context, ids []string, owner string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, mediastore.ErrInvalidID
		}
		oids = append(oids, oid)
	}

	res, err := r.files.DeleteMany(ctx, bson.M{
		"_id":        bson.M{"$in": oids},
		"uploadedBy": owner,
	})
	if err != nil {
		return 0, fmt.Errorf("delete file records: %w", err)
	}
	return res.DeletedCount, nil
}

func filterFor(q mediastore.Query) bson.M {
	filter := bson.M{"uploadedBy": q.Owner}

	if q.Name != "" {
		filter["filename"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexEscape(q.Name),
			Options: "i",
		}}
	}
	if q.Category != "" {
		filter["category"] = string(q.Category)
	}
	if q.MimeType != "" {
		filter["mimeType"] = q.MimeType
	}

	size := bson.M{}
	if q.MinSize > 0 {
		size["$gte"] = q.MinSize
	}
	if q.MaxSize > 0 {
		size["$lte"] = q.MaxSize
	}
	if len(size) > 0 {
		filter["size"] = size
	}

	uploaded := bson.M{}
	if q.UploadedAfter != nil {
		uploaded["$gte"] = *q.UploadedAfter
	}
	if q.UploadedBefore != nil {
		uploaded["$lte"] = *q.UploadedBefore
	}
	if len(uploaded) > 0 {
		filter["uploadedAt"] = uploaded
	}

	return filter
}

func sortFor(q mediastore.Query) bson.D {
	field := "uploadedAt"
	switch q.SortBy {
	case mediastore.SortBySize:
		field = "size"
	case mediastore.SortByFilename:
		field = "filename"
	}

	dir := -1
	if q.SortOrder == mediastore.SortAsc {
		dir = 1
	}

	// Secondary _id sort keeps paging deterministic for equal keys.
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// regexEscape neutralizes regex metacharacters so the name filter is a plain
// substring match.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, m := range meta {
			if r == m {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}
