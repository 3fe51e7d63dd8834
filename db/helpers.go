package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findAfter returns the FindOneAndUpdate options that make the driver return
// the document as it is after the update.
func findAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// initCollections creates the collections in the MongoDB database if they
// don't exist. It also includes the registered validations for every
// collection.
func (ms *MongoStorage) initCollections(database string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// get the current collections names to create only the missing ones
	currentCollections, err := ms.collectionNames(ctx, database)
	if err != nil {
		return err
	}
	// aux method to get a collection if it exists, or create it if it doesn't
	getCollection := func(name string) (*mongo.Collection, error) {
		alreadyCreated := false
		for _, c := range currentCollections {
			if c == name {
				alreadyCreated = true
				break
			}
		}
		if alreadyCreated {
			// refresh the validator of an existing collection
			if validator, ok := collectionsValidators[name]; ok {
				err := ms.client.Database(database).RunCommand(ctx, bson.D{
					{Key: "collMod", Value: name},
					{Key: "validator", Value: validator},
				}).Err()
				if err != nil {
					return nil, fmt.Errorf("failed to update collection validator: %w", err)
				}
			}
		} else {
			// if the collection has a validator create it with it
			opts := options.CreateCollection()
			if validator, ok := collectionsValidators[name]; ok {
				opts = opts.SetValidator(validator).SetValidationLevel("strict").SetValidationAction("error")
			}
			if err := ms.client.Database(database).CreateCollection(ctx, name, opts); err != nil {
				return nil, err
			}
		}
		return ms.client.Database(database).Collection(name), nil
	}
	// users collection
	if ms.users, err = getCollection("users"); err != nil {
		return err
	}
	// wasteRequests collection (regular and bulk)
	if ms.requests, err = getCollection("wasteRequests"); err != nil {
		return err
	}
	// scheduledPickups collection
	if ms.schedules, err = getCollection("scheduledPickups"); err != nil {
		return err
	}
	// expenses collection
	if ms.expenses, err = getCollection("expenses"); err != nil {
		return err
	}
	// collectorProfiles collection
	if ms.collectors, err = getCollection("collectorProfiles"); err != nil {
		return err
	}
	// wasteTips collection
	if ms.tips, err = getCollection("wasteTips"); err != nil {
		return err
	}
	// migrations bookkeeping collection
	if ms.migrations, err = getCollection("migrations"); err != nil {
		return err
	}
	return nil
}

// collectionNames returns the names of the collections in the given database.
func (ms *MongoStorage) collectionNames(ctx context.Context, database string) ([]string, error) {
	collectionsCursor, err := ms.client.Database(database).ListCollections(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = collectionsCursor.Close(ctx) }()
	var names []string
	for collectionsCursor.Next(ctx) {
		var collectionInfo struct {
			Name string `bson:"name"`
		}
		if err := collectionsCursor.Decode(&collectionInfo); err != nil {
			return nil, err
		}
		names = append(names, collectionInfo.Name)
	}
	return names, collectionsCursor.Err()
}

// createIndexes creates the indexes for every collection.
func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// unique email index for users
	if _, err := ms.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	// owner listing index for requests (newest-first scans)
	if _, err := ms.requests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create requests owner index: %w", err)
	}
	// collector assignment index for requests
	if _, err := ms.requests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "collectorId", Value: 1}, {Key: "status", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create requests collector index: %w", err)
	}
	// expense range queries by business and date
	if _, err := ms.expenses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "date", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create expenses index: %w", err)
	}
	// schedules by business
	if _, err := ms.schedules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "businessId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create schedules index: %w", err)
	}
	// one profile per collector account
	if _, err := ms.collectors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create collector profiles index: %w", err)
	}
	return nil
}
