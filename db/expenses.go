package db

import (
	"context"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateExpense stores a new expense after verifying that the referenced
// bulk request exists and belongs to the same business. It returns
// ErrNotFound when the request is missing or foreign-owned.
func (ms *MongoStorage) CreateExpense(exp *Expense) (*Expense, error) {
	if exp.BusinessID.IsZero() || exp.RequestID.IsZero() ||
		exp.Amount < 0 || !IsValidExpenseCategory(exp.Category) {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	// the referenced request must belong to the same business
	count, err := ms.requests.CountDocuments(ctx, bson.M{
		"_id":       exp.RequestID,
		"ownerId":   exp.BusinessID,
		"ownerKind": BusinessOwner,
	})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	now := time.Now()
	exp.ID = internal.NewObjectID()
	if exp.Date.IsZero() {
		exp.Date = now
	}
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if _, err := ms.expenses.InsertOne(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Expense returns the business' expense with the given ID.
func (ms *MongoStorage) Expense(business internal.ObjectID, id internal.ObjectID) (*Expense, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	exp := &Expense{}
	err := ms.expenses.FindOne(ctx, bson.M{"_id": id, "businessId": business}).Decode(exp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exp, nil
}

// ExpensesByBusiness returns the business' expenses, newest date first,
// optionally bounded by an inclusive date range. Zero times disable the
// corresponding bound.
func (ms *MongoStorage) ExpensesByBusiness(
	business internal.ObjectID, from, to time.Time,
) ([]*Expense, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"businessId": business}
	if dateRange := expenseDateRange(from, to); dateRange != nil {
		filter["date"] = dateRange
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := ms.expenses.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	expenses := []*Expense{}
	for cur.Next(ctx) {
		exp := &Expense{}
		if err := cur.Decode(exp); err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, cur.Err()
}

// UpdateExpense updates the amount, category and description of a business'
// expense.
func (ms *MongoStorage) UpdateExpense(
	business internal.ObjectID, id internal.ObjectID,
	amount float64, category ExpenseCategory, description string,
) (*Expense, error) {
	if amount < 0 || !IsValidExpenseCategory(category) {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "businessId": business}
	update := bson.M{"$set": bson.M{
		"amount":      amount,
		"category":    category,
		"description": description,
		"updatedAt":   time.Now(),
	}}
	exp := &Expense{}
	if err := ms.expenses.FindOneAndUpdate(ctx, filter, update, findAfter()).Decode(exp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exp, nil
}

// DeleteExpense removes a business' expense.
func (ms *MongoStorage) DeleteExpense(business internal.ObjectID, id internal.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	res, err := ms.expenses.DeleteOne(ctx, bson.M{"_id": id, "businessId": business})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpenseAnalytics aggregates the business' expenses into per-month and
// per-category totals, optionally bounded by an inclusive date range.
func (ms *MongoStorage) ExpenseAnalytics(
	business internal.ObjectID, from, to time.Time,
) (*ExpenseAnalytics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	match := bson.M{"businessId": business}
	if dateRange := expenseDateRange(from, to); dateRange != nil {
		match["date"] = dateRange
	}

	// monthly totals, keyed year-month
	monthly := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$date"},
				"month": bson.M{"$month": "$date"},
			},
			"totalAmount": bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id": 0,
			"month": bson.M{"$concat": bson.A{
				bson.M{"$toString": "$_id.year"},
				"-",
				bson.M{"$toString": "$_id.month"},
			}},
			"totalAmount": 1,
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"month": 1}}},
	}
	monthlyCur, err := ms.expenses.Aggregate(ctx, monthly)
	if err != nil {
		return nil, err
	}
	analytics := &ExpenseAnalytics{
		MonthlyTotals:  []MonthlyTotal{},
		CategoryTotals: []CategoryTotal{},
	}
	if err := monthlyCur.All(ctx, &analytics.MonthlyTotals); err != nil {
		return nil, err
	}

	// totals per expense category
	byCategory := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$category",
			"totalAmount": bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":         0,
			"category":    "$_id",
			"totalAmount": 1,
		}}},
	}
	categoryCur, err := ms.expenses.Aggregate(ctx, byCategory)
	if err != nil {
		return nil, err
	}
	if err := categoryCur.All(ctx, &analytics.CategoryTotals); err != nil {
		return nil, err
	}
	return analytics, nil
}

// expenseDateRange builds the bson filter for an inclusive date range, or nil
// when both bounds are zero.
func expenseDateRange(from, to time.Time) bson.M {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	return dateRange
}
