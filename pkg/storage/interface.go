package storage

import (
	"context"
	"errors"
	"io"
)

// UploadedObject is produced only on a successful upload; it is never
// partially populated.
type UploadedObject struct {
	Path      string
	PublicURL string
	Size      int64
}

// ObjectStore writes and deletes publicly readable objects with the
// fixed metadata policy: gzip-compressed payload, public-read ACL and
// the process-wide cache-control value.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path, contentType string, r io.Reader) (UploadedObject, error)
	Delete(ctx context.Context, bucket, path string) error
}

var (
	ErrUploadFailed = errors.New("object upload failed")
	ErrDeleteFailed = errors.New("object delete failed")
)
