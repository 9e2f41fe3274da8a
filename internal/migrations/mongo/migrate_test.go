package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	cityrepository "gather/internal/cities/repository"
	classrepository "gather/internal/classes/repository"
	communityrepository "gather/internal/communities/repository"
	contactrepository "gather/internal/contacts/repository"
	donationrepository "gather/internal/donations/repository"
)

func TestCollectionsMatchRepositories(t *testing.T) {
	defs := collections()

	for _, name := range []string{
		contactrepository.CollectionName,
		cityrepository.CollectionName,
		communityrepository.CollectionName,
		classrepository.CollectionName,
		donationrepository.CollectionName,
	} {
		def, ok := defs[name]
		require.True(t, ok, "no migration for collection %q", name)
		assert.NotEmpty(t, def.Indexes, "collection %q has no indexes", name)
		assert.Contains(t, def.Validator, "$jsonSchema")
	}
	assert.Len(t, defs, 5)
}

func TestSlugIndexesAreUnique(t *testing.T) {
	for name, model := range map[string]mongo.IndexModel{
		"cities":      CitiesIndexes[0],
		"communities": CommunitiesIndexes[0],
	} {
		keys, ok := model.Keys.(bson.D)
		require.True(t, ok)
		assert.Equal(t, "slug", keys[0].Key, name)
		require.NotNil(t, model.Options, name)
		require.NotNil(t, model.Options.Unique, name)
		assert.True(t, *model.Options.Unique, name)
	}
}
