package gateway

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// ListDatabases returns the backend's full database catalog. Administrative
// scope: not tied to any one database, so callers skip the ensure step.
func (m *Mongo) ListDatabases(ctx context.Context) (domain.DatabaseCatalog, error) {
	res, err := m.client.ListDatabases(ctx, bson.M{})
	if err != nil {
		return domain.DatabaseCatalog{}, fmt.Errorf("list databases: %w", err)
	}

	catalog := domain.DatabaseCatalog{
		Databases: make([]domain.DatabaseInfo, 0, len(res.Databases)),
		TotalSize: res.TotalSize,
	}
	for _, db := range res.Databases {
		catalog.Databases = append(catalog.Databases, domain.DatabaseInfo{
			Name:       db.Name,
			SizeOnDisk: db.SizeOnDisk,
			Empty:      db.Empty,
		})
	}
	return catalog, nil
}

// ListCollections returns the collections in dbName, excluding the reserved
// scratch collection.
func (m *Mongo) ListCollections(ctx context.Context, dbName string) ([]string, error) {
	names, err := m.client.Database(dbName).ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list collections in '%s': %w", dbName, err)
	}

	collections := make([]string, 0, len(names))
	for _, name := range names {
		if name != scratchCollection {
			collections = append(collections, name)
		}
	}
	return collections, nil
}

// DropCollection drops collName. The drop command runs directly so that a
// missing namespace surfaces as a backend error instead of being swallowed
// by the driver.
func (m *Mongo) DropCollection(ctx context.Context, dbName, collName string) (domain.DropResult, error) {
	cmd := bson.D{{Key: "drop", Value: collName}}
	if err := m.client.Database(dbName).RunCommand(ctx, cmd).Err(); err != nil {
		return domain.DropResult{}, fmt.Errorf("drop collection '%s': %w", collName, err)
	}
	return domain.DropResult{Dropped: true}, nil
}
