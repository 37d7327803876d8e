package gateway

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// CreateDocument inserts one document and returns its generated identifier.
func (m *Mongo) CreateDocument(ctx context.Context, dbName, collName string, doc domain.Document) (domain.InsertResult, error) {
	res, err := m.collection(dbName, collName).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return domain.InsertResult{}, fmt.Errorf("insert into '%s': %w", collName, err)
	}
	return domain.InsertResult{ID: formatID(res.InsertedID), Acknowledged: true}, nil
}

// FindDocuments returns all documents matching query, fully materialized.
// A nil or empty query matches every document in the collection.
func (m *Mongo) FindDocuments(ctx context.Context, dbName, collName string, query domain.Document) ([]domain.Document, error) {
	filter := bson.M{}
	if query != nil {
		filter = bson.M(query)
	}

	cursor, err := m.collection(dbName, collName).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find in '%s': %w", collName, err)
	}
	docs := make([]domain.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read results from '%s': %w", collName, err)
	}
	return docs, nil
}

// UpdateDocument merges update's fields into the document with the given id.
// Fields absent from update are left untouched ($set, not replace).
func (m *Mongo) UpdateDocument(ctx context.Context, dbName, collName, id string, update domain.Document) (domain.UpdateResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	res, err := m.collection(dbName, collName).UpdateByID(ctx, oid, bson.M{"$set": bson.M(update)})
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("update document '%s' in '%s': %w", id, collName, err)
	}
	return domain.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		Acknowledged:  true,
	}, nil
}

// DeleteDocument removes the document with the given id.
func (m *Mongo) DeleteDocument(ctx context.Context, dbName, collName, id string) (domain.DeleteResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return domain.DeleteResult{}, err
	}

	res, err := m.collection(dbName, collName).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("delete document '%s' from '%s': %w", id, collName, err)
	}
	return domain.DeleteResult{DeletedCount: res.DeletedCount, Acknowledged: true}, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &domain.InvalidIDError{ID: id}
	}
	return oid, nil
}

func formatID(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
