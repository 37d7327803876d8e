package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

func TestDispatcher_EnsurePrecondition(t *testing.T) {
	tests := []struct {
		name          string
		command       domain.Command
		expectedCalls []string
	}{
		{
			name:          "health skips ensure",
			command:       domain.HealthCommand{},
			expectedCalls: nil,
		},
		{
			name:          "listDatabases skips ensure",
			command:       domain.ListDatabasesCommand{},
			expectedCalls: nil,
		},
		{
			name:          "explicit dbName is ensured once",
			command:       domain.CreateDocumentCommand{DBName: "orders", CollectionName: "items", Document: domain.Document{"x": 1}},
			expectedCalls: []string{"orders"},
		},
		{
			name:          "empty dbName falls back to default",
			command:       domain.FindDocumentsCommand{CollectionName: "items"},
			expectedCalls: []string{"claude_db"},
		},
		{
			name:          "listCollections is database scoped",
			command:       domain.ListCollectionsCommand{DBName: "orders"},
			expectedCalls: []string{"orders"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewMockGateway()
			d := NewDispatcher(gw, "claude_db")

			_, err := d.Dispatch(context.Background(), tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCalls, gw.EnsureCalls())
		})
	}
}

func TestDispatcher_EnsureFailureStopsOperation(t *testing.T) {
	gw := NewMockGateway()
	gw.SetEnsureError(errors.New("backend unreachable"))
	d := NewDispatcher(gw, "claude_db")

	_, err := d.Dispatch(context.Background(), domain.CreateDocumentCommand{
		DBName:         "orders",
		CollectionName: "items",
		Document:       domain.Document{"x": 1},
	})
	require.Error(t, err)
	assert.Equal(t, 0, gw.CollectionCount("orders", "items"))
}

func TestDispatcher_CreateDocument(t *testing.T) {
	gw := NewMockGateway()
	d := NewDispatcher(gw, "claude_db")

	result, err := d.Dispatch(context.Background(), domain.CreateDocumentCommand{
		DBName:         "d",
		CollectionName: "c",
		Document:       domain.Document{"x": float64(1)},
	})
	require.NoError(t, err)

	inserted, ok := result.(domain.InsertResult)
	require.True(t, ok)
	assert.True(t, inserted.Acknowledged)
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, 1, gw.CollectionCount("d", "c"))
}

func TestDispatcher_CreateThenFindRoundTrip(t *testing.T) {
	gw := NewMockGateway()
	d := NewDispatcher(gw, "claude_db")

	_, err := d.Dispatch(context.Background(), domain.CreateDocumentCommand{
		DBName:         "d",
		CollectionName: "users",
		Document:       domain.Document{"name": "Alice"},
	})
	require.NoError(t, err)

	result, err := d.Dispatch(context.Background(), domain.FindDocumentsCommand{
		DBName:         "d",
		CollectionName: "users",
		Query:          domain.Document{"name": "Alice"},
	})
	require.NoError(t, err)

	docs, ok := result.([]domain.Document)
	require.True(t, ok)
	require.Len(t, docs, 1)
	assert.Equal(t, "Alice", docs[0]["name"])
	assert.Contains(t, docs[0], "_id")
}

func TestDispatcher_UpdateUnknownIDIsNotAnError(t *testing.T) {
	gw := NewMockGateway()
	d := NewDispatcher(gw, "claude_db")

	result, err := d.Dispatch(context.Background(), domain.UpdateDocumentCommand{
		DBName:         "d",
		CollectionName: "users",
		ID:             "507f1f77bcf86cd799439011",
		Update:         domain.Document{"age": float64(31)},
	})
	require.NoError(t, err)

	updated, ok := result.(domain.UpdateResult)
	require.True(t, ok)
	assert.Equal(t, int64(0), updated.MatchedCount)
	assert.Equal(t, int64(0), updated.ModifiedCount)
}

func TestDispatcher_DeleteWithMalformedID(t *testing.T) {
	gw := NewMockGateway()
	d := NewDispatcher(gw, "claude_db")

	_, err := d.Dispatch(context.Background(), domain.DeleteDocumentCommand{
		DBName:         "d",
		CollectionName: "users",
		ID:             "not-an-object-id",
	})
	require.Error(t, err)

	var idErr *domain.InvalidIDError
	assert.ErrorAs(t, err, &idErr)
}

func TestDispatcher_DropMissingCollection(t *testing.T) {
	gw := NewMockGateway()
	d := NewDispatcher(gw, "claude_db")

	_, err := d.Dispatch(context.Background(), domain.DropCollectionCommand{
		DBName:         "d",
		CollectionName: "missing",
	})
	assert.Error(t, err)
}

func TestDispatcher_Health(t *testing.T) {
	gw := NewMockGateway()
	d := NewDispatcher(gw, "claude_db")

	result, err := d.Dispatch(context.Background(), domain.HealthCommand{})
	require.NoError(t, err)

	health, ok := result.(domain.HealthStatus)
	require.True(t, ok)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "0.1.0", health.Version)
}

func TestDispatcher_UnhandledVariantPanics(t *testing.T) {
	d := NewDispatcher(NewMockGateway(), "claude_db")

	assert.Panics(t, func() {
		_, _ = d.Dispatch(context.Background(), unknownCommand{})
	})
}

type unknownCommand struct{}

func (unknownCommand) Tag() string { return "unknown" }
