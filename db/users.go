package db

import (
	"context"
	"strings"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetUser creates the user in the database. The email is stored lowercased so
// uniqueness is case-insensitive. It returns ErrAlreadyExists when the email
// is taken and ErrInvalidData when the role is not valid.
func (ms *MongoStorage) SetUser(user *User) (internal.ObjectID, error) {
	if !IsValidRole(user.Role) {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	user.Email = strings.ToLower(user.Email)
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Location.Type == "" {
		user.Location = NewGeoPoint(0, 0)
	}
	if user.ID.IsZero() {
		user.ID = internal.NewObjectID()
	}
	if _, err := ms.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.NilObjectID, ErrAlreadyExists
		}
		return internal.NilObjectID, err
	}
	return user.ID, nil
}

// User returns the user with the given ID. If the user doesn't exist, it
// returns ErrNotFound.
func (ms *MongoStorage) User(id internal.ObjectID) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	user := &User{}
	if err := ms.users.FindOne(ctx, bson.M{"_id": id}).Decode(user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UserByEmail returns the user with the given email, matched
// case-insensitively. If the user doesn't exist, it returns ErrNotFound.
func (ms *MongoStorage) UserByEmail(email string) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	user := &User{}
	err := ms.users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserProfile updates the mutable profile fields of a user. The role
// and password are never touched here.
func (ms *MongoStorage) UpdateUserProfile(id internal.ObjectID, name, phone string) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":      name,
		"phone":     phone,
		"updatedAt": time.Now(),
	}}
	return ms.findAndUpdateUser(ctx, bson.M{"_id": id}, update)
}

// UpdateUserLocation replaces the stored geolocation point of a user.
func (ms *MongoStorage) UpdateUserLocation(id internal.ObjectID, longitude, latitude float64) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"location":  NewGeoPoint(longitude, latitude),
		"updatedAt": time.Now(),
	}}
	return ms.findAndUpdateUser(ctx, bson.M{"_id": id}, update)
}

func (ms *MongoStorage) findAndUpdateUser(ctx context.Context, filter, update bson.M) (*User, error) {
	user := &User{}
	err := ms.users.FindOneAndUpdate(ctx, filter, update, findAfter()).Decode(user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
