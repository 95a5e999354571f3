package storageconnections

import (
	"context"
	"io"
)

// PutOptions is the per-object metadata the sink fixes for every write.
type PutOptions struct {
	ContentType     string
	ContentEncoding string
	CacheControl    string
}

// ObjectStorageConnection is the thin wrapper over the blob store
// client. Buckets are addressed per call because one service instance
// serves every configured bucket.
type ObjectStorageConnection interface {
	PutObject(ctx context.Context, bucket, objectName string, opts PutOptions, reader io.Reader) (size int64, err error)
	RemoveObject(ctx context.Context, bucket, objectName string) error
	ObjectExists(ctx context.Context, bucket, objectName string) (bool, error)
	PublicURL(bucket, objectName string) string
}
