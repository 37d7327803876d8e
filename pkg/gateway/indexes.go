package gateway

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// CreateIndex creates an index from a key specification and optional index
// options, returning the backend-assigned index name.
func (m *Mongo) CreateIndex(ctx context.Context, dbName, collName string, keys, opts domain.Document) (domain.IndexResult, error) {
	model := mongo.IndexModel{Keys: indexKeys(keys), Options: indexOptions(opts)}
	name, err := m.collection(dbName, collName).Indexes().CreateOne(ctx, model)
	if err != nil {
		return domain.IndexResult{}, fmt.Errorf("create index on '%s': %w", collName, err)
	}
	return domain.IndexResult{Name: name}, nil
}

// ListIndexes returns all indexes on the collection.
func (m *Mongo) ListIndexes(ctx context.Context, dbName, collName string) ([]domain.Document, error) {
	cursor, err := m.collection(dbName, collName).Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes on '%s': %w", collName, err)
	}
	indexes := make([]domain.Document, 0)
	if err := cursor.All(ctx, &indexes); err != nil {
		return nil, fmt.Errorf("read indexes on '%s': %w", collName, err)
	}
	return indexes, nil
}

// indexKeys converts a JSON key specification into a bson.D. JSON objects
// carry no field order, so compound keys are normalized by sorted field name.
func indexKeys(keys domain.Document) bson.D {
	fields := make([]string, 0, len(keys))
	for field := range keys {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	spec := make(bson.D, 0, len(fields))
	for _, field := range fields {
		spec = append(spec, bson.E{Key: field, Value: indexDirection(keys[field])})
	}
	return spec
}

// indexDirection narrows whole JSON numbers to int32 so the server sees 1/-1
// key directions rather than doubles. Non-numeric values ("text", "2dsphere")
// pass through.
func indexDirection(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return int32(f)
	}
	return v
}

// indexOptions maps the recognized subset of index options.
func indexOptions(opts domain.Document) *options.IndexOptions {
	if len(opts) == 0 {
		return nil
	}
	idx := options.Index()
	if v, ok := opts["name"].(string); ok {
		idx.SetName(v)
	}
	if v, ok := opts["unique"].(bool); ok {
		idx.SetUnique(v)
	}
	if v, ok := opts["sparse"].(bool); ok {
		idx.SetSparse(v)
	}
	if v, ok := opts["expireAfterSeconds"].(float64); ok {
		idx.SetExpireAfterSeconds(int32(v))
	}
	return idx
}
