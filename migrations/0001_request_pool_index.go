package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	AddMigration(1, "request_pool_index", upRequestPoolIndex, downRequestPoolIndex)
}

// The unassigned pending pool is scanned by status and sorted by pickup date,
// so both fields go into one compound index.
func upRequestPoolIndex(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("wasteRequests").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}},
	})
	return err
}

func downRequestPoolIndex(ctx context.Context, database *mongo.Database) error {
	return dropIndexIfExists(ctx, database.Collection("wasteRequests"), "status_1_date_1")
}
