package recordconnections

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordsDBConfig struct {
	ConnectionString string
}

type RecordsDBConnection interface {
	Collection(collectionName string) *mongo.Collection
}

type RecordsDBProductionConnection struct {
	config RecordsDBConfig
	client *mongo.Client
}

var _ RecordsDBConnection = (*RecordsDBProductionConnection)(nil)

func NewRecordsDBProductionConnection(ctx context.Context, config RecordsDBConfig) (RecordsDBConnection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &RecordsDBProductionConnection{
		config: config,
		client: client,
	}, nil
}

func (c *RecordsDBProductionConnection) Collection(collectionName string) *mongo.Collection {
	return c.client.Database("imagetor").Collection(collectionName)
}
