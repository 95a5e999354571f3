package storageconnections

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioObjectStorageConnectionConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// PublicBaseURL overrides the URL under which uploaded objects are
	// publicly reachable (CDN or reverse proxy in front of the store).
	// Empty means the storage endpoint itself.
	PublicBaseURL string
}

type MinioObjectStorageConnection struct {
	config MinioObjectStorageConnectionConfig
	client *minio.Client
}

var _ ObjectStorageConnection = (*MinioObjectStorageConnection)(nil)

func NewMinioObjectStorageConnection(config MinioObjectStorageConnectionConfig) (*MinioObjectStorageConnection, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioObjectStorageConnection{
		config: config,
		client: client,
	}, nil
}

func (c *MinioObjectStorageConnection) PutObject(
	ctx context.Context,
	bucket, objectName string,
	opts PutOptions,
	reader io.Reader,
) (int64, error) {
	info, err := c.client.PutObject(ctx, bucket, objectName, reader, -1, minio.PutObjectOptions{
		ContentType:     opts.ContentType,
		ContentEncoding: opts.ContentEncoding,
		CacheControl:    opts.CacheControl,
		UserMetadata:    map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return 0, err
	}

	return info.Size, nil
}

func (c *MinioObjectStorageConnection) RemoveObject(ctx context.Context, bucket, objectName string) error {
	return c.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
}

func (c *MinioObjectStorageConnection) ObjectExists(ctx context.Context, bucket, objectName string) (bool, error) {
	_, err := c.client.StatObject(ctx, bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *MinioObjectStorageConnection) PublicURL(bucket, objectName string) string {
	if c.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.config.PublicBaseURL, "/"), bucket, objectName)
	}

	scheme := "http"
	if c.config.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.config.Endpoint, bucket, objectName)
}
