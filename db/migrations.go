package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ecocollect/waste-backend/migrations"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MigrationRecord is the bookkeeping document stored for every applied
// migration.
type MigrationRecord struct {
	Version   int       `bson:"version"`
	AppliedAt time.Time `bson:"applied_at"`
}

// RunMigrationsUp applies every registered migration newer than the last
// applied one, recording each on success.
func (ms *MongoStorage) RunMigrationsUp() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	lastMigration, err := lastAppliedMigration(ctx, ms.migrations)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	migs := migrations.SortedByVersionAsc()
	if len(migs) == 0 || migs[len(migs)-1].Version == lastMigration {
		log.Debug("database is up-to-date, no need to migrate")
		return nil
	}
	log.WithFields(log.Fields{
		"available": len(migs),
		"applied":   lastMigration,
	}).Info("starting database migrations")

	for _, migration := range migs {
		if migration.Version <= lastMigration {
			continue
		}
		log.WithFields(log.Fields{
			"version": migration.Version,
			"name":    migration.Name,
		}).Info("applying migration")
		if err := migration.Up(ctx, ms.client.Database(ms.database)); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
		record := MigrationRecord{
			Version:   migration.Version,
			AppliedAt: time.Now(),
		}
		if _, err := ms.migrations.InsertOne(ctx, record); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}
	return nil
}

// RunMigrationsDown rolls back the given number of applied migrations, or all
// of them when steps is zero or negative.
func (ms *MongoStorage) RunMigrationsDown(steps int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	lastMigration, err := lastAppliedMigration(ctx, ms.migrations)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}
	if steps <= 0 || steps > lastMigration {
		steps = lastMigration
	}

	registry := migrations.AsMap()
	for version := lastMigration; version > lastMigration-steps; version-- {
		migration, exists := registry[version]
		if !exists {
			return fmt.Errorf("migration %d not found in registry", version)
		}
		log.WithFields(log.Fields{
			"version": migration.Version,
			"name":    migration.Name,
		}).Info("rolling back migration")
		if err := migration.Down(ctx, ms.client.Database(ms.database)); err != nil {
			return fmt.Errorf("failed to rollback migration %d (%s): %w", migration.Version, migration.Name, err)
		}
		if _, err := ms.migrations.DeleteOne(ctx, bson.M{"version": version}); err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", version, err)
		}
	}
	return nil
}

// lastAppliedMigration returns the highest applied migration version, or zero
// when none has been applied yet.
func lastAppliedMigration(ctx context.Context, collection *mongo.Collection) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	record := &MigrationRecord{}
	if err := collection.FindOne(ctx, bson.M{}, opts).Decode(record); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return record.Version, nil
}
