package db

import (
	"context"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetCollectorProfile creates the profile of a collector account. Each
// collector has exactly one profile; a second insert for the same user
// returns ErrAlreadyExists.
func (ms *MongoStorage) SetCollectorProfile(cp *CollectorProfile) (internal.ObjectID, error) {
	if cp.UserID.IsZero() {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	cp.ID = internal.NewObjectID()
	cp.Active = true
	if cp.CurrentLocation.Type == "" {
		cp.CurrentLocation = NewGeoPoint(0, 0)
	}
	if cp.ServiceArea.Radius == 0 {
		cp.ServiceArea.Radius = 10
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	if _, err := ms.collectors.InsertOne(ctx, cp); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.NilObjectID, ErrAlreadyExists
		}
		return internal.NilObjectID, err
	}
	return cp.ID, nil
}

// CollectorProfileByUser returns the profile of the given collector account.
func (ms *MongoStorage) CollectorProfileByUser(userID internal.ObjectID) (*CollectorProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return ms.findCollectorProfile(ctx, bson.M{"userId": userID})
}

// UpdateCollectorProfile updates the mutable fields of a collector profile.
func (ms *MongoStorage) UpdateCollectorProfile(
	userID internal.ObjectID,
	vehicleType, vehicleNumber string,
	hours WorkingHours,
	area ServiceArea,
	prefs NotificationPreferences,
) (*CollectorProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"vehicleType":             vehicleType,
		"vehicleNumber":           vehicleNumber,
		"workingHours":            hours,
		"serviceArea":             area,
		"notificationPreferences": prefs,
		"updatedAt":               time.Now(),
	}}
	return ms.findAndUpdateCollectorProfile(ctx, bson.M{"userId": userID}, update)
}

// UpdateCollectorLocation replaces the collector's current location point.
func (ms *MongoStorage) UpdateCollectorLocation(
	userID internal.ObjectID, longitude, latitude float64,
) (*CollectorProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"currentLocation": NewGeoPoint(longitude, latitude),
		"updatedAt":       time.Now(),
	}}
	return ms.findAndUpdateCollectorProfile(ctx, bson.M{"userId": userID}, update)
}

// RecordCollectorPickup bumps the cumulative performance counters of a
// collector after a completed pickup and recomputes the efficiency score.
// The score is the on-time ratio blended with the normalized satisfaction
// rating.
func (ms *MongoStorage) RecordCollectorPickup(
	userID internal.ObjectID, earnings float64, onTime bool,
) (*CollectorProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	inc := bson.M{
		"performanceMetrics.totalCollections": 1,
		"performanceMetrics.totalEarnings":    earnings,
	}
	if onTime {
		inc["performanceMetrics.onTimeCollections"] = 1
	}
	cp, err := ms.findAndUpdateCollectorProfile(ctx, bson.M{"userId": userID}, bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	// recompute the derived score from the fresh counters
	score := efficiencyScore(cp.Metrics)
	return ms.findAndUpdateCollectorProfile(ctx, bson.M{"userId": userID}, bson.M{
		"$set": bson.M{"performanceMetrics.efficiencyScore": score},
	})
}

// efficiencyScore derives the 0-100 score from the cumulative counters:
// 60% on-time ratio, 40% satisfaction (itself on a 0-5 scale).
func efficiencyScore(m PerformanceMetrics) float64 {
	if m.TotalCollections == 0 {
		return 0
	}
	onTimeRate := float64(m.OnTimeCollections) / float64(m.TotalCollections)
	return (onTimeRate*0.6 + (m.CustomerSatisfaction/5)*0.4) * 100
}

func (ms *MongoStorage) findCollectorProfile(ctx context.Context, filter bson.M) (*CollectorProfile, error) {
	cp := &CollectorProfile{}
	if err := ms.collectors.FindOne(ctx, filter).Decode(cp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cp, nil
}

func (ms *MongoStorage) findAndUpdateCollectorProfile(
	ctx context.Context, filter, update bson.M,
) (*CollectorProfile, error) {
	cp := &CollectorProfile{}
	err := ms.collectors.FindOneAndUpdate(ctx, filter, update, findAfter()).Decode(cp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cp, nil
}
