package domain

import "context"

// Gateway defines the interface for backend database operations.
// This is the core business interface that implementations must conform to.
// Every method may assume the target database already exists; callers run
// EnsureDatabase first (the dispatcher enforces this).
type Gateway interface {
	EnsureDatabase(ctx context.Context, dbName string) error
	Health() HealthStatus
	ListDatabases(ctx context.Context) (DatabaseCatalog, error)
	ListCollections(ctx context.Context, dbName string) ([]string, error)
	CreateDocument(ctx context.Context, dbName, collName string, doc Document) (InsertResult, error)
	FindDocuments(ctx context.Context, dbName, collName string, query Document) ([]Document, error)
	UpdateDocument(ctx context.Context, dbName, collName, id string, update Document) (UpdateResult, error)
	DeleteDocument(ctx context.Context, dbName, collName, id string) (DeleteResult, error)
	Aggregate(ctx context.Context, dbName, collName string, pipeline []interface{}) ([]Document, error)
	CreateIndex(ctx context.Context, dbName, collName string, keys, opts Document) (IndexResult, error)
	ListIndexes(ctx context.Context, dbName, collName string) ([]Document, error)
	DropCollection(ctx context.Context, dbName, collName string) (DropResult, error)
}

// HealthStatus is the health command payload. URI carries redacted
// credentials only.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	DefaultDB string `json:"defaultDb"`
	URI       string `json:"uri"`
}

// DatabaseCatalog is the backend's administrative database listing
type DatabaseCatalog struct {
	Databases []DatabaseInfo `json:"databases"`
	TotalSize int64          `json:"totalSize"`
}

// DatabaseInfo describes one database in the catalog
type DatabaseInfo struct {
	Name       string `json:"name"`
	SizeOnDisk int64  `json:"sizeOnDisk"`
	Empty      bool   `json:"empty"`
}

// InsertResult reports a single-document insert
type InsertResult struct {
	ID           string `json:"id"`
	Acknowledged bool   `json:"acknowledged"`
}

// UpdateResult reports a single-document merge update
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	Acknowledged  bool  `json:"acknowledged"`
}

// DeleteResult reports a single-document delete
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
	Acknowledged bool  `json:"acknowledged"`
}

// IndexResult reports the backend-assigned name of a created index
type IndexResult struct {
	Name string `json:"name"`
}

// DropResult reports a collection drop
type DropResult struct {
	Dropped bool `json:"dropped"`
}
