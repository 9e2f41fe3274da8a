package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "gather/pkg/errors"
)

func TestNormalize_MixedInput(t *testing.T) {
	got := Normalize([]any{"507f1f77bcf86cd799439011", "", nil, "custom-id-1"})

	require.Len(t, got, 2)
	oid, ok := got[0].(primitive.ObjectID)
	require.True(t, ok, "first id should be an ObjectID, got %T", got[0])
	assert.Equal(t, "507f1f77bcf86cd799439011", oid.Hex())
	assert.Equal(t, "custom-id-1", got[1])
}

func TestNormalize(t *testing.T) {
	hex := "507F1F77BCF86CD799439011"
	var nilStr *string

	tests := []struct {
		name string
		in   []any
		want []any
	}{
		{"nil slice", nil, []any{}},
		{"all unusable", []any{"", nil, nilStr, 42, true}, []any{}},
		{"uppercase hex", []any{hex}, []any{mustOID(t, "507f1f77bcf86cd799439011")}},
		{"23 hex chars stay strings", []any{"507f1f77bcf86cd79943901"}, []any{"507f1f77bcf86cd79943901"}},
		{"non-hex 24 chars stay strings", []any{"zzzzzzzzzzzzzzzzzzzzzzzz"}, []any{"zzzzzzzzzzzzzzzzzzzzzzzz"}},
		{"string pointer", []any{&hex}, []any{mustOID(t, "507f1f77bcf86cd799439011")}},
		{"object id passes", []any{mustOID(t, "507f1f77bcf86cd799439011")}, []any{mustOID(t, "507f1f77bcf86cd799439011")}},
		{"order kept", []any{"b", "a", "c"}, []any{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestInFilter(t *testing.T) {
	f, err := InFilter("_id", []any{"custom-id-1"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": bson.M{"$in": []any{"custom-id-1"}}}, f)

	_, err = InFilter("_id", []any{"", nil})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestIDFilter(t *testing.T) {
	f, err := IDFilter("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": mustOID(t, "507f1f77bcf86cd799439011")}, f)

	_, err = IDFilter("")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestString(t *testing.T) {
	assert.Equal(t, "507f1f77bcf86cd799439011", String(mustOID(t, "507f1f77bcf86cd799439011")))
	assert.Equal(t, "slug-id", String("slug-id"))
	assert.Equal(t, "", String(12))
}

func mustOID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return oid
}
