package db

import (
	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
)

var collectionsValidators = map[string]bson.M{
	"users":         usersCollectionValidator,
	"wasteRequests": wasteRequestsCollectionValidator,
}

var usersCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"email", "password", "role"},
		"properties": bson.M{
			"email": bson.M{
				"bsonType":    "string",
				"description": "must be an email and is required",
				"pattern":     internal.EmailRegexTemplate,
			},
			"password": bson.M{
				"bsonType":    "string",
				"description": "must be a string and is required",
				"minLength":   8,
			},
			"role": bson.M{
				"bsonType":    "string",
				"description": "must be one of the account roles and is required",
				"enum":        []string{string(ResidentRole), string(BusinessRole), string(CollectorRole)},
			},
		},
	},
}

var wasteRequestsCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"ownerId", "ownerKind", "kind", "wasteType", "status"},
		"properties": bson.M{
			"ownerKind": bson.M{
				"bsonType":    "string",
				"description": "must be a request owner kind and is required",
				"enum":        []string{string(ResidentOwner), string(BusinessOwner)},
			},
			"kind": bson.M{
				"bsonType":    "string",
				"description": "must be a request kind and is required",
				"enum":        []string{string(RegularRequest), string(BulkRequest)},
			},
			"wasteType": bson.M{
				"bsonType":    "string",
				"description": "must be a waste type and is required",
				"enum": []string{
					string(WasteBiodegradable),
					string(WasteNonBiodegradable),
					string(WasteRecyclable),
				},
			},
			"status": bson.M{
				"bsonType":    "string",
				"description": "must be a lifecycle status and is required",
				"enum": []string{
					string(StatusPending),
					string(StatusAccepted),
					string(StatusRejected),
					string(StatusCompleted),
					string(StatusCancelled),
				},
			},
			"quantity": bson.M{
				"bsonType":    []string{"int", "long", "double"},
				"description": "bulk request quantity, at least one",
				"minimum":     1,
			},
		},
	},
}
