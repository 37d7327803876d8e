// Package gateway implements the backend side of the bridge on top of the
// official MongoDB driver. One long-lived client is shared by all in-flight
// requests; the driver's own pooling handles concurrent use.
package gateway

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adfharrison1/mongo-bridge/pkg/config"
	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

var _ domain.Gateway = (*Mongo)(nil)

// scratchCollection is created and immediately dropped by EnsureDatabase to
// make an otherwise-empty database visible to catalog listings. The name is
// reserved: ListCollections never reports it.
const scratchCollection = "_bridge_init"

// Mongo implements domain.Gateway over a single MongoDB client.
type Mongo struct {
	client *mongo.Client
	cfg    config.Config
}

// Connect builds the client and verifies the deployment is reachable.
func Connect(ctx context.Context, cfg config.Config) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", config.RedactURI(cfg.URI), err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping %s: %w", config.RedactURI(cfg.URI), err)
	}
	log.Printf("INFO: Connected to MongoDB at %s", config.RedactURI(cfg.URI))
	return &Mongo{client: client, cfg: cfg}, nil
}

// Close tears down the backend connection.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) collection(dbName, collName string) *mongo.Collection {
	return m.client.Database(dbName).Collection(collName)
}
