package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	AddMigration(2, "collector_geo_index", upCollectorGeoIndex, downCollectorGeoIndex)
}

// Collector positions are GeoJSON points, indexed for proximity queries.
func upCollectorGeoIndex(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("collectorProfiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "currentLocation", Value: "2dsphere"}},
	})
	return err
}

func downCollectorGeoIndex(ctx context.Context, database *mongo.Database) error {
	return dropIndexIfExists(ctx, database.Collection("collectorProfiles"), "currentLocation_2dsphere")
}
