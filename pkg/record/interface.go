package record

import (
	"context"
	"errors"
	"time"
)

// IngestionRecord is the metadata kept beside every uploaded object.
// Records are best-effort bookkeeping: the object store stays the
// source of truth for the payload itself.
type IngestionRecord struct {
	RequestID string `json:"requestId" bson:"requestId"`

	Bucket    string `json:"bucket" bson:"bucket"`
	Path      string `json:"path" bson:"path"`
	PublicURL string `json:"publicUrl" bson:"publicUrl"`

	MimeType  string `json:"mimeType" bson:"mimeType"`
	Size      int64  `json:"size" bson:"size"`
	SourceURL string `json:"sourceUrl" bson:"sourceUrl"`
	Variant   bool   `json:"variant" bson:"variant"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, rec IngestionRecord) error
	DeleteByPath(ctx context.Context, bucket, path string) error
}

var ErrRecordNotFound = errors.New("ingestion record not found")
