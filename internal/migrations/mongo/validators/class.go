package validators

import "go.mongodb.org/mongo-driver/bson"

var ClassValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"community_id",
			"title",
			"starts_at",
			"signup_form",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"community_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"starts_at": bson.M{
				"bsonType": "date",
			},

			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  10000,
			},

			"signup_form": bson.M{
				"bsonType": "array",
				"minItems": 1,
			},

			"signups": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "data", "created_at"},
					"properties": bson.M{
						"id":          bson.M{"bsonType": "string"},
						"data":        bson.M{"bsonType": "object"},
						"phone":       bson.M{"bsonType": "string"},
						"created_at":  bson.M{"bsonType": "date"},
						"canceled_at": bson.M{"bsonType": "date"},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var DonationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"amount_cents", "currency", "donor_name", "donor_email", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":               bson.M{"bsonType": "objectId"},
			"amount_cents":      bson.M{"bsonType": []string{"int", "long"}, "minimum": 100},
			"currency":          bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
			"donor_name":        bson.M{"bsonType": "string"},
			"donor_email":       bson.M{"bsonType": "string"},
			"donor_phone":       bson.M{"bsonType": "string"},
			"community_id":      bson.M{"bsonType": "string"},
			"payment_intent_id": bson.M{"bsonType": "string"},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "succeeded", "failed"},
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
