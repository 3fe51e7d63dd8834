package db

import (
	"context"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSchedule stores a new scheduled pickup. Weekly schedules require a
// valid day of week, monthly schedules a day of month between 1 and 31; the
// two recurrence fields are mutually exclusive.
func (ms *MongoStorage) CreateSchedule(sp *ScheduledPickup) (*ScheduledPickup, error) {
	if sp.BusinessID.IsZero() || !IsValidWasteType(sp.WasteType) ||
		sp.TimeSlot == "" || sp.Address == "" || sp.StartDate.IsZero() {
		return nil, ErrInvalidData
	}
	switch sp.Frequency {
	case FrequencyWeekly:
		if !IsValidDayOfWeek(sp.DayOfWeek) || sp.DayOfMonth != 0 {
			return nil, ErrInvalidData
		}
	case FrequencyMonthly:
		if sp.DayOfMonth < 1 || sp.DayOfMonth > 31 || sp.DayOfWeek != "" {
			return nil, ErrInvalidData
		}
	default:
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	sp.ID = internal.NewObjectID()
	sp.Active = true
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if _, err := ms.schedules.InsertOne(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// SchedulesByBusiness returns the business' scheduled pickups, newest first.
func (ms *MongoStorage) SchedulesByBusiness(business internal.ObjectID) ([]*ScheduledPickup, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := ms.schedules.Find(ctx, bson.M{"businessId": business}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	schedules := []*ScheduledPickup{}
	for cur.Next(ctx) {
		sp := &ScheduledPickup{}
		if err := cur.Decode(sp); err != nil {
			return nil, err
		}
		schedules = append(schedules, sp)
	}
	return schedules, cur.Err()
}

// SetScheduleActive toggles the active flag of a business' scheduled pickup.
func (ms *MongoStorage) SetScheduleActive(
	business internal.ObjectID, id internal.ObjectID, active bool,
) (*ScheduledPickup, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "businessId": business}
	update := bson.M{"$set": bson.M{"active": active, "updatedAt": time.Now()}}
	sp := &ScheduledPickup{}
	if err := ms.schedules.FindOneAndUpdate(ctx, filter, update, findAfter()).Decode(sp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sp, nil
}
