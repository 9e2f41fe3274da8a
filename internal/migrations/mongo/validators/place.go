package validators

import "go.mongodb.org/mongo-driver/bson"

// Cities and communities are stored as free-form documents; only the
// fields every place carries are pinned down here.
var CityValidator = placeValidator(bson.M{
	"communities": bson.M{
		"bsonType": "array",
		"items":    bson.M{"bsonType": "string"},
	},
})

var CommunityValidator = placeValidator(bson.M{
	"city_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
})

func placeValidator(extra bson.M) bson.M {
	properties := bson.M{
		"_id":         bson.M{"bsonType": "objectId"},
		"name":        bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
		"slug":        bson.M{"bsonType": "string", "minLength": 1, "maxLength": 120},
		"visibility":  bson.M{"bsonType": "bool"},
		"description": bson.M{"bsonType": "string"},
		"created_at":  bson.M{"bsonType": "date"},
		"updated_at":  bson.M{"bsonType": "date"},
	}
	for k, v := range extra {
		properties[k] = v
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":             "object",
			"required":             []string{"name", "slug", "created_at"},
			"additionalProperties": true,
			"properties":           properties,
		},
	}
}
