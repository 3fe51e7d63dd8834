package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	AddMigration(3, "tips_category_index", upTipsCategoryIndex, downTipsCategoryIndex)
}

func upTipsCategoryIndex(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("wasteTips").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func downTipsCategoryIndex(ctx context.Context, database *mongo.Database) error {
	return dropIndexIfExists(ctx, database.Collection("wasteTips"), "category_1_createdAt_-1")
}
