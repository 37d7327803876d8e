package domain

import (
	"encoding/json"
	"fmt"
)

// Command tags recognized by the bridge. The set is closed: every request
// line must resolve to exactly one of these.
const (
	CmdHealth          = "health"
	CmdListDatabases   = "listDatabases"
	CmdListCollections = "listCollections"
	CmdCreateDocument  = "createDocument"
	CmdFindDocuments   = "findDocuments"
	CmdUpdateDocument  = "updateDocument"
	CmdDeleteDocument  = "deleteDocument"
	CmdAggregate       = "aggregate"
	CmdCreateIndex     = "createIndex"
	CmdListIndexes     = "listIndexes"
	CmdDropCollection  = "dropCollection"
)

// Command is one validated request. The concrete type determines which
// gateway operation runs; variants without a DBName field (health,
// listDatabases) never touch a specific database.
type Command interface {
	// Tag returns the wire-level command name.
	Tag() string
}

// HealthCommand reports bridge status and configuration.
type HealthCommand struct{}

// ListDatabasesCommand lists the backend's database catalog.
type ListDatabasesCommand struct{}

// ListCollectionsCommand lists collections in one database.
type ListCollectionsCommand struct {
	DBName string
}

// CreateDocumentCommand inserts one document into a collection.
type CreateDocumentCommand struct {
	DBName         string
	CollectionName string
	Document       Document
}

// FindDocumentsCommand returns documents matching a query. A nil query
// matches everything.
type FindDocumentsCommand struct {
	DBName         string
	CollectionName string
	Query          Document
}

// UpdateDocumentCommand merges fields into the document with the given id.
type UpdateDocumentCommand struct {
	DBName         string
	CollectionName string
	ID             string
	Update         Document
}

// DeleteDocumentCommand removes the document with the given id.
type DeleteDocumentCommand struct {
	DBName         string
	CollectionName string
	ID             string
}

// AggregateCommand runs an aggregation pipeline against a collection.
type AggregateCommand struct {
	DBName         string
	CollectionName string
	Pipeline       []interface{}
}

// CreateIndexCommand creates an index from a key specification.
type CreateIndexCommand struct {
	DBName         string
	CollectionName string
	Keys           Document
	Options        Document
}

// ListIndexesCommand lists all indexes on a collection.
type ListIndexesCommand struct {
	DBName         string
	CollectionName string
}

// DropCollectionCommand drops a collection.
type DropCollectionCommand struct {
	DBName         string
	CollectionName string
}

func (HealthCommand) Tag() string          { return CmdHealth }
func (ListDatabasesCommand) Tag() string   { return CmdListDatabases }
func (ListCollectionsCommand) Tag() string { return CmdListCollections }
func (CreateDocumentCommand) Tag() string  { return CmdCreateDocument }
func (FindDocumentsCommand) Tag() string   { return CmdFindDocuments }
func (UpdateDocumentCommand) Tag() string  { return CmdUpdateDocument }
func (DeleteDocumentCommand) Tag() string  { return CmdDeleteDocument }
func (AggregateCommand) Tag() string       { return CmdAggregate }
func (CreateIndexCommand) Tag() string     { return CmdCreateIndex }
func (ListIndexesCommand) Tag() string     { return CmdListIndexes }
func (DropCollectionCommand) Tag() string  { return CmdDropCollection }

// rawCommand is the permissive wire shape. Which fields are required depends
// on the resolved tag; ParseCommand enforces that.
type rawCommand struct {
	Command        string        `json:"command"`
	DBName         string        `json:"dbName"`
	CollectionName string        `json:"collectionName"`
	Document       Document      `json:"document"`
	Query          Document      `json:"query"`
	Update         Document      `json:"update"`
	Pipeline       []interface{} `json:"pipeline"`
	Keys           Document      `json:"keys"`
	Options        Document      `json:"options"`
	ID             string        `json:"id"`
}

// ParseCommand validates one decoded request line into exactly one Command
// variant. Unknown tags, missing required fields, and wrong-shaped fields are
// all rejected; there is no coercion.
func ParseCommand(line []byte) (Command, error) {
	var raw rawCommand
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	switch raw.Command {
	case CmdHealth:
		return HealthCommand{}, nil
	case CmdListDatabases:
		return ListDatabasesCommand{}, nil
	case CmdListCollections:
		return ListCollectionsCommand{DBName: raw.DBName}, nil
	case CmdCreateDocument:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		if raw.Document == nil {
			return nil, &ValidationError{Field: "document", Reason: "required for createDocument"}
		}
		return CreateDocumentCommand{DBName: raw.DBName, CollectionName: coll, Document: raw.Document}, nil
	case CmdFindDocuments:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		return FindDocumentsCommand{DBName: raw.DBName, CollectionName: coll, Query: raw.Query}, nil
	case CmdUpdateDocument:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		if raw.ID == "" {
			return nil, &ValidationError{Field: "id", Reason: "required for updateDocument"}
		}
		if raw.Update == nil {
			return nil, &ValidationError{Field: "update", Reason: "required for updateDocument"}
		}
		return UpdateDocumentCommand{DBName: raw.DBName, CollectionName: coll, ID: raw.ID, Update: raw.Update}, nil
	case CmdDeleteDocument:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		if raw.ID == "" {
			return nil, &ValidationError{Field: "id", Reason: "required for deleteDocument"}
		}
		return DeleteDocumentCommand{DBName: raw.DBName, CollectionName: coll, ID: raw.ID}, nil
	case CmdAggregate:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		if raw.Pipeline == nil {
			return nil, &ValidationError{Field: "pipeline", Reason: "required for aggregate"}
		}
		return AggregateCommand{DBName: raw.DBName, CollectionName: coll, Pipeline: raw.Pipeline}, nil
	case CmdCreateIndex:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		if len(raw.Keys) == 0 {
			return nil, &ValidationError{Field: "keys", Reason: "required for createIndex"}
		}
		return CreateIndexCommand{DBName: raw.DBName, CollectionName: coll, Keys: raw.Keys, Options: raw.Options}, nil
	case CmdListIndexes:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		return ListIndexesCommand{DBName: raw.DBName, CollectionName: coll}, nil
	case CmdDropCollection:
		coll, err := raw.collection()
		if err != nil {
			return nil, err
		}
		return DropCollectionCommand{DBName: raw.DBName, CollectionName: coll}, nil
	case "":
		return nil, &ValidationError{Field: "command", Reason: "required"}
	default:
		return nil, &ValidationError{Field: "command", Reason: fmt.Sprintf("unknown command '%s'", raw.Command)}
	}
}

// collection returns the collectionName or a validation error if it is
// missing or empty.
func (r *rawCommand) collection() (string, error) {
	if r.CollectionName == "" {
		return "", &ValidationError{Field: "collectionName", Reason: fmt.Sprintf("required for %s", r.Command)}
	}
	return r.CollectionName, nil
}
