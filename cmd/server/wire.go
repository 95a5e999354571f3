//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/thebartekbanach/imagetor/pkg/ingest"
	"github.com/thebartekbanach/imagetor/pkg/record"
)

func InitializeService(ctx context.Context, logger zerolog.Logger) ingest.Service {
	wire.Build(
		InitializeObjectStorageConnectionConfig,
		InitializeObjectStorageConnection,
		InitializeObjectStore,

		InitializeRecordsDBConnectionConfig,
		InitializeRecordsDBConnection,
		record.NewIngestionsRepository,

		InitializeBuckets,
		InitializeFetcher,

		ingest.NewService,
	)

	return nil
}
