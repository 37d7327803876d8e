package bridge

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// MockGateway provides an in-memory implementation of domain.Gateway for
// testing. It records every EnsureDatabase call so tests can assert the
// precondition ran exactly once per request.
type MockGateway struct {
	mu          sync.Mutex
	databases   map[string]map[string][]domain.Document
	ensureCalls []string
	ensureErr   error
	health      domain.HealthStatus
	nextID      int
}

var _ domain.Gateway = (*MockGateway)(nil)

// NewMockGateway creates an empty mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		databases: make(map[string]map[string][]domain.Document),
		health: domain.HealthStatus{
			Status:    "ok",
			Version:   "0.1.0",
			DefaultDB: "claude_db",
			URI:       "mongodb://localhost:27017",
		},
	}
}

// SetEnsureError forces EnsureDatabase to fail.
func (m *MockGateway) SetEnsureError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureErr = err
}

// SetHealth overrides the health payload.
func (m *MockGateway) SetHealth(h domain.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health = h
}

// EnsureCalls returns the database names EnsureDatabase was invoked with, in
// call order.
func (m *MockGateway) EnsureCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ensureCalls...)
}

func (m *MockGateway) EnsureDatabase(_ context.Context, dbName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls = append(m.ensureCalls, dbName)
	if m.ensureErr != nil {
		return m.ensureErr
	}
	if m.databases[dbName] == nil {
		m.databases[dbName] = make(map[string][]domain.Document)
	}
	return nil
}

func (m *MockGateway) Health() domain.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.health
}

func (m *MockGateway) ListDatabases(_ context.Context) (domain.DatabaseCatalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	catalog := domain.DatabaseCatalog{Databases: make([]domain.DatabaseInfo, 0, len(m.databases))}
	for name, colls := range m.databases {
		catalog.Databases = append(catalog.Databases, domain.DatabaseInfo{Name: name, Empty: len(colls) == 0})
	}
	return catalog, nil
}

func (m *MockGateway) ListCollections(_ context.Context, dbName string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.databases[dbName]))
	for name := range m.databases[dbName] {
		names = append(names, name)
	}
	return names, nil
}

func (m *MockGateway) CreateDocument(_ context.Context, dbName, collName string, doc domain.Document) (domain.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("%024x", m.nextID)

	stored := domain.Document{"_id": id}
	for k, v := range doc {
		stored[k] = v
	}
	if m.databases[dbName] == nil {
		m.databases[dbName] = make(map[string][]domain.Document)
	}
	m.databases[dbName][collName] = append(m.databases[dbName][collName], stored)
	return domain.InsertResult{ID: id, Acknowledged: true}, nil
}

func (m *MockGateway) FindDocuments(_ context.Context, dbName, collName string, query domain.Document) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]domain.Document, 0)
	for _, doc := range m.databases[dbName][collName] {
		if matchesQuery(doc, query) {
			results = append(results, doc)
		}
	}
	return results, nil
}

func (m *MockGateway) UpdateDocument(_ context.Context, dbName, collName, id string, update domain.Document) (domain.UpdateResult, error) {
	if len(id) != 24 {
		return domain.UpdateResult{}, &domain.InvalidIDError{ID: id}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.databases[dbName][collName] {
		if doc["_id"] == id {
			for k, v := range update {
				doc[k] = v
			}
			return domain.UpdateResult{MatchedCount: 1, ModifiedCount: 1, Acknowledged: true}, nil
		}
	}
	return domain.UpdateResult{Acknowledged: true}, nil
}

func (m *MockGateway) DeleteDocument(_ context.Context, dbName, collName, id string) (domain.DeleteResult, error) {
	if len(id) != 24 {
		return domain.DeleteResult{}, &domain.InvalidIDError{ID: id}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.databases[dbName][collName]
	for i, doc := range docs {
		if doc["_id"] == id {
			m.databases[dbName][collName] = append(docs[:i], docs[i+1:]...)
			return domain.DeleteResult{DeletedCount: 1, Acknowledged: true}, nil
		}
	}
	return domain.DeleteResult{Acknowledged: true}, nil
}

func (m *MockGateway) Aggregate(_ context.Context, dbName, collName string, _ []interface{}) ([]domain.Document, error) {
	// Pipelines are opaque to the mock; return the collection unchanged.
	return m.FindDocuments(context.Background(), dbName, collName, nil)
}

func (m *MockGateway) CreateIndex(_ context.Context, _, _ string, keys, _ domain.Document) (domain.IndexResult, error) {
	name := ""
	for field := range keys {
		name = field + "_1"
		break
	}
	return domain.IndexResult{Name: name}, nil
}

func (m *MockGateway) ListIndexes(_ context.Context, _, _ string) ([]domain.Document, error) {
	return []domain.Document{{"name": "_id_", "key": map[string]interface{}{"_id": 1}}}, nil
}

func (m *MockGateway) DropCollection(_ context.Context, dbName, collName string) (domain.DropResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.databases[dbName][collName]; !exists {
		return domain.DropResult{}, fmt.Errorf("drop collection '%s': ns not found", collName)
	}
	delete(m.databases[dbName], collName)
	return domain.DropResult{Dropped: true}, nil
}

// CollectionCount returns the number of documents stored in a collection.
func (m *MockGateway) CollectionCount(dbName, collName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.databases[dbName][collName])
}

func matchesQuery(doc domain.Document, query domain.Document) bool {
	for field, expected := range query {
		if !reflect.DeepEqual(doc[field], expected) {
			return false
		}
	}
	return true
}
