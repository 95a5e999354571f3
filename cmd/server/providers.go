package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/thebartekbanach/imagetor/pkg/config"
	"github.com/thebartekbanach/imagetor/pkg/fetcher"
	recordconnections "github.com/thebartekbanach/imagetor/pkg/record/connections"
	"github.com/thebartekbanach/imagetor/pkg/storage"
	storageconnections "github.com/thebartekbanach/imagetor/pkg/storage/connections"
)

func InitializeObjectStorageConnectionConfig() storageconnections.MinioObjectStorageConnectionConfig {
	config := storageconnections.MinioObjectStorageConnectionConfig{
		Endpoint:      os.Getenv("IMAGETOR_MINIO_ENDPOINT"),
		AccessKey:     os.Getenv("IMAGETOR_MINIO_ACCESS_KEY"),
		SecretKey:     os.Getenv("IMAGETOR_MINIO_SECRET_KEY"),
		UseSSL:        os.Getenv("IMAGETOR_MINIO_SSL") == "true",
		PublicBaseURL: os.Getenv("IMAGETOR_PUBLIC_BASE_URL"),
	}

	if config.Endpoint == "" {
		log.Panic("IMAGETOR_MINIO_ENDPOINT is required environment variable")
	}

	if _, err := url.Parse(config.Endpoint); err != nil {
		log.Panicf("Error ocurred when parsing IMAGETOR_MINIO_ENDPOINT: %s", err)
	}

	if config.AccessKey == "" {
		log.Panic("IMAGETOR_MINIO_ACCESS_KEY is required environment variable")
	}

	if config.SecretKey == "" {
		log.Panic("IMAGETOR_MINIO_SECRET_KEY is required environment variable")
	}

	if config.PublicBaseURL != "" {
		if _, err := url.Parse(config.PublicBaseURL); err != nil {
			log.Panicf("Error ocurred when parsing IMAGETOR_PUBLIC_BASE_URL: %s", err)
		}
	}

	return config
}

func InitializeObjectStorageConnection(storageConfig storageconnections.MinioObjectStorageConnectionConfig) storageconnections.ObjectStorageConnection {
	connection, err := storageconnections.NewMinioObjectStorageConnection(storageConfig)
	if err != nil {
		log.Panicf("Error ocurred when initializing Minio connection: %s", err)
	}

	return connection
}

func InitializeObjectStore(connection storageconnections.ObjectStorageConnection) storage.ObjectStore {
	cacheControl := os.Getenv("IMAGETOR_CACHE_CONTROL")
	if cacheControl == "" {
		cacheControl = "public, max-age=31536000"
	}

	return storage.NewObjectStore(connection, cacheControl)
}

func InitializeRecordsDBConnectionConfig() recordconnections.RecordsDBConfig {
	config := recordconnections.RecordsDBConfig{
		ConnectionString: os.Getenv("IMAGETOR_MONGO_CONNECTION_STRING"),
	}

	if config.ConnectionString == "" {
		log.Panic("IMAGETOR_MONGO_CONNECTION_STRING is required environment variable")
	}

	if _, err := url.Parse(config.ConnectionString); err != nil {
		log.Panicf("Error ocurred when parsing IMAGETOR_MONGO_CONNECTION_STRING: %s", err)
	}

	return config
}

func InitializeRecordsDBConnection(ctx context.Context, recordsConfig recordconnections.RecordsDBConfig) recordconnections.RecordsDBConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	connection, err := recordconnections.NewRecordsDBProductionConnection(ctx, recordsConfig)
	if err != nil {
		log.Panicf("Error ocurred when initializing MongoDB connection: %s", err)
	}

	return connection
}

func InitializeBuckets() config.Buckets {
	bucketsFile := os.Getenv("IMAGETOR_BUCKETS_FILE")
	if bucketsFile == "" {
		log.Panic("IMAGETOR_BUCKETS_FILE is required environment variable")
	}

	buckets, err := config.LoadBuckets(bucketsFile)
	if err != nil {
		log.Panicf("Error ocurred when loading buckets configuration: %s", err)
	}

	return buckets
}

func InitializeFetcher() fetcher.Fetcher {
	timeout := 10 * time.Second

	if rawTimeout := os.Getenv("IMAGETOR_FETCH_TIMEOUT"); rawTimeout != "" {
		parsedTimeout, err := time.ParseDuration(rawTimeout)
		if err != nil {
			log.Panicf("Error ocurred when parsing IMAGETOR_FETCH_TIMEOUT: %s", err)
		}
		timeout = parsedTimeout
	}

	return fetcher.NewHTTPFetcher(timeout)
}
