package validators

import "go.mongodb.org/mongo-driver/bson"

var ContactValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"first_name", "last_name", "scope", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"first_name":   bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"last_name":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"phone":        bson.M{"bsonType": "string"},
			"phone_digits": bson.M{"bsonType": "string"},
			"email":        bson.M{"bsonType": "string"},
			"scope": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "community", "city"},
			},
			"scope_id":   bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"owner_id":   bson.M{"bsonType": "string"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
