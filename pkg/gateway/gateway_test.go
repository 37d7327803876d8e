package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

func TestParseObjectID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		expectError bool
	}{
		{name: "valid 24 char hex", id: "507f1f77bcf86cd799439011", expectError: false},
		{name: "too short", id: "507f1f77", expectError: true},
		{name: "non-hex characters", id: "zzzzzzzzzzzzzzzzzzzzzzzz", expectError: true},
		{name: "empty", id: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oid, err := parseObjectID(tt.id)
			if tt.expectError {
				require.Error(t, err)
				var idErr *domain.InvalidIDError
				assert.ErrorAs(t, err, &idErr)
				assert.Equal(t, tt.id, idErr.ID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, oid.Hex())
			}
		})
	}
}

func TestFormatID(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	assert.Equal(t, "507f1f77bcf86cd799439011", formatID(oid))
	assert.Equal(t, "custom-key", formatID("custom-key"))
	assert.Equal(t, "42", formatID(42))
}

func TestIndexKeys(t *testing.T) {
	spec := indexKeys(domain.Document{
		"name":     float64(1),
		"age":      float64(-1),
		"bio":      "text",
		"location": "2dsphere",
	})

	// Sorted by field name, whole numbers narrowed to int32.
	assert.Equal(t, bson.D{
		{Key: "age", Value: int32(-1)},
		{Key: "bio", Value: "text"},
		{Key: "location", Value: "2dsphere"},
		{Key: "name", Value: int32(1)},
	}, spec)
}

func TestIndexOptions(t *testing.T) {
	assert.Nil(t, indexOptions(nil))
	assert.Nil(t, indexOptions(domain.Document{}))

	opts := indexOptions(domain.Document{
		"name":               "idx_email",
		"unique":             true,
		"sparse":             true,
		"expireAfterSeconds": float64(3600),
	})
	require.NotNil(t, opts)
	assert.Equal(t, "idx_email", *opts.Name)
	assert.True(t, *opts.Unique)
	assert.True(t, *opts.Sparse)
	assert.Equal(t, int32(3600), *opts.ExpireAfterSeconds)
}

func TestIndexOptions_WrongTypesIgnored(t *testing.T) {
	opts := indexOptions(domain.Document{
		"unique": "yes",
		"name":   float64(7),
	})
	require.NotNil(t, opts)
	assert.Nil(t, opts.Unique)
	assert.Nil(t, opts.Name)
}

func TestHasServerErrorCode(t *testing.T) {
	nsNotFound := mongo.CommandError{Code: codeNamespaceNotFound, Message: "ns not found"}

	assert.True(t, hasServerErrorCode(nsNotFound, codeNamespaceNotFound))
	assert.False(t, hasServerErrorCode(nsNotFound, codeNamespaceExists))
	assert.False(t, hasServerErrorCode(assert.AnError, codeNamespaceNotFound))
}
