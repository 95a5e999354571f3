package storage_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/thebartekbanach/imagetor/pkg/storage"
	storageconnections "github.com/thebartekbanach/imagetor/pkg/storage/connections"
)

type fakeConnection struct {
	putBucket string
	putObject string
	putOpts   storageconnections.PutOptions
	putData   []byte
	putErr    error

	removed   []string
	removeErr error
}

var _ storageconnections.ObjectStorageConnection = (*fakeConnection)(nil)

func (c *fakeConnection) PutObject(_ context.Context, bucket, objectName string, opts storageconnections.PutOptions, reader io.Reader) (int64, error) {
	if c.putErr != nil {
		return 0, c.putErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}

	c.putBucket = bucket
	c.putObject = objectName
	c.putOpts = opts
	c.putData = data
	return int64(len(data)), nil
}

func (c *fakeConnection) RemoveObject(_ context.Context, bucket, objectName string) error {
	if c.removeErr != nil {
		return c.removeErr
	}

	c.removed = append(c.removed, bucket+"/"+objectName)
	return nil
}

func (c *fakeConnection) ObjectExists(context.Context, string, string) (bool, error) {
	return false, nil
}

func (c *fakeConnection) PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, objectName)
}

func TestObjectStore_UploadGzipsPayloadAndAppliesMetadataPolicy(t *testing.T) {
	conn := &fakeConnection{}
	store := storage.NewObjectStore(conn, "public, max-age=86400")
	payload := []byte("image bytes to upload")

	obj, err := store.Upload(context.Background(), "photos", "orig/cat.jpeg", "image/jpeg", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if conn.putOpts.ContentType != "image/jpeg" {
		t.Errorf("Expected image/jpeg content type, got %q", conn.putOpts.ContentType)
	}
	if conn.putOpts.ContentEncoding != "gzip" {
		t.Errorf("Expected gzip content encoding, got %q", conn.putOpts.ContentEncoding)
	}
	if conn.putOpts.CacheControl != "public, max-age=86400" {
		t.Errorf("Expected process-wide cache-control, got %q", conn.putOpts.CacheControl)
	}

	gz, err := gzip.NewReader(bytes.NewReader(conn.putData))
	if err != nil {
		t.Fatalf("Expected gzipped payload, got: %v", err)
	}
	decompressed, _ := io.ReadAll(gz)
	if !bytes.Equal(decompressed, payload) {
		t.Errorf("Expected payload to survive compression, got %v", decompressed)
	}

	if obj.Path != "orig/cat.jpeg" {
		t.Errorf("Expected destination path in result, got %q", obj.Path)
	}
	if obj.PublicURL != "https://cdn.example.com/photos/orig/cat.jpeg" {
		t.Errorf("Expected public URL for destination, got %q", obj.PublicURL)
	}
	if obj.Size != int64(len(conn.putData)) {
		t.Errorf("Expected stored size %d, got %d", len(conn.putData), obj.Size)
	}
}

func TestObjectStore_UploadReportsBackendFailureWithPath(t *testing.T) {
	conn := &fakeConnection{putErr: errors.New("quota exceeded")}
	store := storage.NewObjectStore(conn, "")

	_, err := store.Upload(context.Background(), "photos", "orig/cat.jpeg", "image/jpeg", bytes.NewReader([]byte("x")))
	if !errors.Is(err, storage.ErrUploadFailed) {
		t.Fatalf("Expected ErrUploadFailed, got: %v", err)
	}
}

func TestObjectStore_DeleteRemovesObject(t *testing.T) {
	conn := &fakeConnection{}
	store := storage.NewObjectStore(conn, "")

	if err := store.Delete(context.Background(), "photos", "orig/cat.jpeg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(conn.removed) != 1 || conn.removed[0] != "photos/orig/cat.jpeg" {
		t.Errorf("Expected one removed object, got %v", conn.removed)
	}
}

func TestObjectStore_DeleteSurfacesBackendError(t *testing.T) {
	conn := &fakeConnection{removeErr: errors.New("permission denied")}
	store := storage.NewObjectStore(conn, "")

	err := store.Delete(context.Background(), "photos", "orig/cat.jpeg")
	if !errors.Is(err, storage.ErrDeleteFailed) {
		t.Fatalf("Expected ErrDeleteFailed, got: %v", err)
	}
}
