package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes surfaced by create/drop of the scratch collection.
const (
	codeNamespaceNotFound = 26
	codeNamespaceExists   = 48
)

// EnsureDatabase makes dbName observably exist. A database with zero
// collections is invisible to listing operations, so a scratch collection is
// created and then discarded. Idempotent, and safe when two requests race on
// the same database: an already-existing scratch collection and an
// already-absent one are both treated as success.
func (m *Mongo) EnsureDatabase(ctx context.Context, dbName string) error {
	db := m.client.Database(dbName)
	if err := db.CreateCollection(ctx, scratchCollection); err != nil && !hasServerErrorCode(err, codeNamespaceExists) {
		return fmt.Errorf("ensure database '%s': %w", dbName, err)
	}
	if err := db.Collection(scratchCollection).Drop(ctx); err != nil && !hasServerErrorCode(err, codeNamespaceNotFound) {
		return fmt.Errorf("ensure database '%s': %w", dbName, err)
	}
	return nil
}

func hasServerErrorCode(err error, code int32) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == code
	}
	return false
}
