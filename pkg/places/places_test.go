package places

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gather/pkg/document"
	apperrors "gather/pkg/errors"
	"gather/pkg/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDecode_RejectsNonObjects(t *testing.T) {
	_, err := Decode([]any{"a"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArgumentType))
}

func TestDecode_DropsServerFields(t *testing.T) {
	obj, err := Decode(map[string]any{
		"_id":        "x",
		"id":         "y",
		"created_at": "yesterday",
		"name":       "Ogden",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, obj.Keys())
}

func TestDecode_DropsOwnedFields(t *testing.T) {
	obj, err := Decode(map[string]any{
		"communities": []any{"c1"},
		"name":        "Ogden",
	}, model.FieldCommunities)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, obj.Keys())
}

func TestPrepare_DerivesSlugAndBackfills(t *testing.T) {
	record := document.MustObject(map[string]any{
		"name":        "  Salt   Lake City ",
		"description": "<b>Great</b> &amp; sunny",
		"location":    map[string]any{"address": "1 Main St"},
	})

	got, err := Prepare(record, model.CityTemplate(), now)
	require.NoError(t, err)

	m := got.Map()
	assert.Equal(t, "Salt Lake City", m["name"])
	assert.Equal(t, "salt-lake-city", m["slug"])
	assert.Equal(t, "Great & sunny", m["description"])
	assert.Equal(t, false, m["visibility"])
	assert.Equal(t, []any{}, m["communities"])
	assert.Equal(t, now, m["created_at"])

	wantLocation := map[string]any{"address": "1 Main St", "latitude": 0.0, "longitude": 0.0}
	if diff := cmp.Diff(wantLocation, m["location"]); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_KeepsExplicitSlug(t *testing.T) {
	record := document.MustObject(map[string]any{"name": "Ogden", "slug": "Ogden Valley!"})

	got, err := Prepare(record, model.CityTemplate(), now)
	require.NoError(t, err)
	assert.Equal(t, "ogden-valley", got.Map()["slug"])
}

func TestPrepare_ShapeMismatch(t *testing.T) {
	record := document.MustObject(map[string]any{"name": "Ogden", "location": "downtown"})

	_, err := Prepare(record, model.CityTemplate(), now)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArgumentType))
}

func TestPatch_OverlaysThenBackfills(t *testing.T) {
	oid := primitive.NewObjectID()
	created := primitive.NewDateTimeFromTime(now.Add(-time.Hour))
	stored := bson.M{
		"_id":        oid,
		"name":       "Ogden",
		"slug":       "ogden",
		"created_at": created,
		"location":   bson.D{{Key: "address", Value: "old"}, {Key: "latitude", Value: 41.2}},
	}
	patch := document.MustObject(map[string]any{
		"location":    map[string]any{"address": "new"},
		"description": nil,
	})

	got, err := Patch(stored, patch, model.CityTemplate(), now)
	require.NoError(t, err)

	m := got.Map()
	_, hasID := m["_id"]
	assert.False(t, hasID, "_id must not be part of a replacement document")
	assert.Equal(t, created, m["created_at"])
	assert.Equal(t, now, m["updated_at"])
	assert.Equal(t, "ogden", m["slug"])
	assert.Equal(t, "", m["description"], "removed keys are backfilled from the template")

	wantLocation := map[string]any{"address": "new", "latitude": 41.2, "longitude": 0.0}
	if diff := cmp.Diff(wantLocation, m["location"]); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
}

func TestPresent_ExposesStringID(t *testing.T) {
	oid := primitive.NewObjectID()
	out := Present(bson.M{"_id": oid, "name": "Ogden"}, model.CommunityTemplate())

	assert.Equal(t, oid.Hex(), out["id"])
	assert.NotContains(t, out, "_id")
	assert.Equal(t, []any{}, out["classes"])
}

func TestPresent_FallsBackOnShapeMismatch(t *testing.T) {
	out := Present(bson.M{"name": "Ogden", "meeting": "weekly"}, model.CommunityTemplate())
	assert.Equal(t, "weekly", out["meeting"])
}

func TestValidateCommon(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name       string
		doc        map[string]any
		wantFields []string
	}{
		{"valid", map[string]any{"name": "Ogden", "slug": "ogden", "visibility": true}, nil},
		{"missing name and slug", map[string]any{}, []string{"name", "slug"}},
		{"non-string name", map[string]any{"name": 12.0, "slug": "x"}, []string{"name"}},
		{"visibility not bool", map[string]any{"name": "a", "slug": "a", "visibility": "yes"}, []string{"visibility"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCommon(v, document.MustObject(tt.doc))
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
