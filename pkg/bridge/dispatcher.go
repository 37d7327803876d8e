package bridge

import (
	"context"
	"fmt"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// Dispatcher routes validated commands to gateway operations with dependency
// injection of the gateway and the process default database.
type Dispatcher struct {
	gateway   domain.Gateway
	defaultDB string
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(gw domain.Gateway, defaultDB string) *Dispatcher {
	return &Dispatcher{gateway: gw, defaultDB: defaultDB}
}

// Dispatch executes one command and returns its raw result. Database-scoped
// commands run the ensure-database precondition exactly once first, against
// the command's dbName or the configured default when the command leaves it
// empty. Results pass through unshaped.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domain.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case domain.HealthCommand:
		return d.gateway.Health(), nil

	case domain.ListDatabasesCommand:
		return d.gateway.ListDatabases(ctx)

	case domain.ListCollectionsCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.ListCollections(ctx, db)

	case domain.CreateDocumentCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.CreateDocument(ctx, db, c.CollectionName, c.Document)

	case domain.FindDocumentsCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.FindDocuments(ctx, db, c.CollectionName, c.Query)

	case domain.UpdateDocumentCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.UpdateDocument(ctx, db, c.CollectionName, c.ID, c.Update)

	case domain.DeleteDocumentCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.DeleteDocument(ctx, db, c.CollectionName, c.ID)

	case domain.AggregateCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.Aggregate(ctx, db, c.CollectionName, c.Pipeline)

	case domain.CreateIndexCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.CreateIndex(ctx, db, c.CollectionName, c.Keys, c.Options)

	case domain.ListIndexesCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.ListIndexes(ctx, db, c.CollectionName)

	case domain.DropCollectionCommand:
		db, err := d.ensure(ctx, c.DBName)
		if err != nil {
			return nil, err
		}
		return d.gateway.DropCollection(ctx, db, c.CollectionName)

	default:
		// ParseCommand enumerates every variant; arriving here is a
		// programming error, not a user-facing one.
		panic(fmt.Sprintf("unhandled command type %T", cmd))
	}
}

// ensure resolves the effective database name and runs the existence
// precondition against it.
func (d *Dispatcher) ensure(ctx context.Context, dbName string) (string, error) {
	if dbName == "" {
		dbName = d.defaultDB
	}
	if err := d.gateway.EnsureDatabase(ctx, dbName); err != nil {
		return "", err
	}
	return dbName, nil
}
