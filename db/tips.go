package db

import (
	"context"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateTip stores a new disposal tip.
func (ms *MongoStorage) CreateTip(tip *WasteTip) (internal.ObjectID, error) {
	if !IsValidWasteType(tip.Category) || tip.Content == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	tip.ID = internal.NewObjectID()
	tip.CreatedAt = now
	tip.UpdatedAt = now
	if _, err := ms.tips.InsertOne(ctx, tip); err != nil {
		return internal.NilObjectID, err
	}
	return tip.ID, nil
}

// Tips returns every tip sorted by category, newest first inside each one.
// An empty category filter returns all categories.
func (ms *MongoStorage) Tips(category WasteType) ([]*WasteTip, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		if !IsValidWasteType(category) {
			return nil, ErrInvalidData
		}
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "createdAt", Value: -1},
	})
	cursor, err := ms.tips.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var tips []*WasteTip
	if err := cursor.All(ctx, &tips); err != nil {
		return nil, err
	}
	return tips, nil
}
