package storageconnections

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MinioObjectStorageTestingConnection connects to the docker-compose
// minio instance and provisions a throwaway bucket for one test.
type MinioObjectStorageTestingConnection struct {
	MinioObjectStorageConnection

	Bucket string
}

func NewMinioObjectStorageTestingConnection(t *testing.T) *MinioObjectStorageTestingConnection {
	conn, err := NewMinioObjectStorageConnection(MinioObjectStorageConnectionConfig{
		Endpoint:  testingServerEndpoint,
		AccessKey: testingServerAccessKey,
		SecretKey: testingServerSecretKey,
		UseSSL:    false,
	})
	if err != nil {
		panic("Error when connecting to minio object storage: " + err.Error())
	}

	bucket := uuid.New().String() + "-testing-bucket"
	if err := conn.client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
		panic("Error when creating testing bucket: " + err.Error())
	}

	testingConn := &MinioObjectStorageTestingConnection{*conn, bucket}
	t.Cleanup(testingConn.dropTestingBucket)

	return testingConn
}

func (c *MinioObjectStorageTestingConnection) dropTestingBucket() {
	objects := c.client.ListObjects(context.Background(), c.Bucket, minio.ListObjectsOptions{Recursive: true})
	for object := range objects {
		c.client.RemoveObject(context.Background(), c.Bucket, object.Key, minio.RemoveObjectOptions{})
	}

	c.client.RemoveBucket(context.Background(), c.Bucket)
}

const testingServerEndpoint = "IntegrationTests.Imagetor.Minio:9000"
const testingServerAccessKey = "minio"
const testingServerSecretKey = "minio123"
