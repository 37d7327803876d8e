package gateway

import (
	"context"
	"fmt"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// Aggregate runs pipeline against the collection and returns the resulting
// documents, fully materialized.
func (m *Mongo) Aggregate(ctx context.Context, dbName, collName string, pipeline []interface{}) ([]domain.Document, error) {
	cursor, err := m.collection(dbName, collName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate on '%s': %w", collName, err)
	}
	docs := make([]domain.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read aggregation results from '%s': %w", collName, err)
	}
	return docs, nil
}
