package record

import (
	"context"

	recordconnections "github.com/thebartekbanach/imagetor/pkg/record/connections"
	"go.mongodb.org/mongo-driver/bson"
)

const ingestionsCollection = "ingestions"

type ingestionsRepository struct {
	conn recordconnections.RecordsDBConnection
}

var _ Repository = (*ingestionsRepository)(nil)

func NewIngestionsRepository(conn recordconnections.RecordsDBConnection) Repository {
	return &ingestionsRepository{conn}
}

func (repo *ingestionsRepository) Create(ctx context.Context, rec IngestionRecord) error {
	collection := repo.conn.Collection(ingestionsCollection)

	// one record per live object path; a re-ingest of the same path
	// replaces the previous record
	filter := bson.M{"bucket": rec.Bucket, "path": rec.Path}
	collection.DeleteMany(ctx, filter)

	_, err := collection.InsertOne(ctx, rec)
	return err
}

func (repo *ingestionsRepository) DeleteByPath(ctx context.Context, bucket, path string) error {
	collection := repo.conn.Collection(ingestionsCollection)

	result, err := collection.DeleteMany(ctx, bson.M{"bucket": bucket, "path": path})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}

	return nil
}
