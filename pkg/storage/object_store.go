package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"

	storageconnections "github.com/thebartekbanach/imagetor/pkg/storage/connections"
)

type objectStore struct {
	conn         storageconnections.ObjectStorageConnection
	cacheControl string
}

var _ ObjectStore = (*objectStore)(nil)

// NewObjectStore builds the sink over a storage connection. The
// cache-control value is process-wide, not per-request.
func NewObjectStore(conn storageconnections.ObjectStorageConnection, cacheControl string) ObjectStore {
	return &objectStore{conn, cacheControl}
}

func (s *objectStore) Upload(ctx context.Context, bucket, path, contentType string, r io.Reader) (UploadedObject, error) {
	pipeReader, pipeWriter := io.Pipe()
	go func() {
		gz := gzip.NewWriter(pipeWriter)
		_, err := io.Copy(gz, r)
		if closeErr := gz.Close(); err == nil {
			err = closeErr
		}
		pipeWriter.CloseWithError(err)
	}()

	opts := storageconnections.PutOptions{
		ContentType:     contentType,
		ContentEncoding: "gzip",
		CacheControl:    s.cacheControl,
	}

	size, err := s.conn.PutObject(ctx, bucket, path, opts, pipeReader)
	if err != nil {
		return UploadedObject{}, fmt.Errorf("%w: %s: %v", ErrUploadFailed, path, err)
	}

	return UploadedObject{
		Path:      path,
		PublicURL: s.conn.PublicURL(bucket, path),
		Size:      size,
	}, nil
}

func (s *objectStore) Delete(ctx context.Context, bucket, path string) error {
	if err := s.conn.RemoveObject(ctx, bucket, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDeleteFailed, path, err)
	}

	return nil
}
