// Package db provides the MongoDB storage layer for accounts, waste requests,
// scheduled pickups, expenses, collector profiles and waste tips.
package db

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStorage uses an external MongoDB service for storing accounts and
// every waste-management document.
type MongoStorage struct {
	client   *mongo.Client
	database string

	users      *mongo.Collection
	requests   *mongo.Collection
	schedules  *mongo.Collection
	expenses   *mongo.Collection
	collectors *mongo.Collection
	tips       *mongo.Collection
	migrations *mongo.Collection
}

// New connects to the MongoDB service at the given URL and prepares the
// collections and indexes of the given database.
func New(url, database string) (*MongoStorage, error) {
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.WithFields(log.Fields{"database": database}).Info("connecting to mongodb")
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.database = database
	if err := ms.initCollections(database); err != nil {
		return nil, err
	}
	// if the reset flag is enabled, drop the database documents and recreate
	// the indexes, otherwise just create the indexes
	if reset := os.Getenv("ECOCOLLECT_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
	} else if err := ms.createIndexes(); err != nil {
		return nil, err
	}
	// apply any pending schema migrations
	if err := ms.RunMigrationsUp(); err != nil {
		return nil, err
	}
	return ms, nil
}

// Close disconnects the MongoDB client.
func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

// Reset drops every collection's documents and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Info("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, col := range []*mongo.Collection{
		ms.users, ms.requests, ms.schedules, ms.expenses, ms.collectors, ms.tips,
	} {
		if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return ms.createIndexes()
}
