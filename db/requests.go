package db

import (
	"context"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateRequest stores a new waste request. The status is forced to pending
// regardless of the input, bulk requests are business-only and must carry a
// quantity of at least one, and the date must not be in the past. An empty
// kind defaults to a regular request.
func (ms *MongoStorage) CreateRequest(req *WasteRequest) (*WasteRequest, error) {
	if req.OwnerID.IsZero() || !IsValidWasteType(req.WasteType) ||
		req.TimeSlot == "" || req.Address == "" {
		return nil, ErrInvalidData
	}
	if req.OwnerKind != ResidentOwner && req.OwnerKind != BusinessOwner {
		return nil, ErrInvalidData
	}
	if req.Kind == "" {
		req.Kind = RegularRequest
	}
	if req.Kind != RegularRequest && req.Kind != BulkRequest {
		return nil, ErrInvalidData
	}
	if req.Bulk() && (req.OwnerKind != BusinessOwner || req.Quantity < 1) {
		return nil, ErrInvalidData
	}
	if req.Date.Before(startOfDay(time.Now())) {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	req.ID = internal.NewObjectID()
	req.Status = StatusPending
	req.CompletedAt = nil
	req.CreatedAt = now
	req.UpdatedAt = now
	if _, err := ms.requests.InsertOne(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Request returns the request with the given ID, scoped to its owner. A
// request owned by another account is indistinguishable from a missing one.
func (ms *MongoStorage) Request(owner internal.ObjectID, id internal.ObjectID) (*WasteRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return ms.findRequest(ctx, bson.M{"_id": id, "ownerId": owner})
}

// RequestsByOwner returns the owner's requests of the given kind (regular or
// bulk), newest first.
func (ms *MongoStorage) RequestsByOwner(owner internal.ObjectID, kind RequestKind) ([]*WasteRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := ms.requests.Find(ctx, bson.M{"ownerId": owner, "kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	return decodeRequests(ctx, cur)
}

// OpenRequestsByCollector returns the pending and accepted requests assigned
// to the collector, soonest pickup date first.
func (ms *MongoStorage) OpenRequestsByCollector(collector internal.ObjectID) ([]*WasteRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"collectorId": collector,
		"status":      bson.M{"$in": []RequestStatus{StatusPending, StatusAccepted}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := ms.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeRequests(ctx, cur)
}

// UnassignedPendingRequests returns pending requests no collector has claimed
// yet, soonest pickup date first. Collectors pick their next jobs from this
// pool.
func (ms *MongoStorage) UnassignedPendingRequests() ([]*WasteRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status":      StatusPending,
		"collectorId": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := ms.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeRequests(ctx, cur)
}

// CompletedRequestsByCollector returns one page of the collector's completed
// requests, newest completion first, along with the total count.
func (ms *MongoStorage) CompletedRequestsByCollector(
	collector internal.ObjectID, page, limit int,
) ([]*WasteRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"collectorId": collector, "status": StatusCompleted}
	total, err := ms.requests.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := ms.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	reqs, err := decodeRequests(ctx, cur)
	return reqs, total, err
}

// CompletedRequestsByCollectorSince returns the collector's requests
// completed inside [from, to], oldest completion first. Used by the
// performance analytics.
func (ms *MongoStorage) CompletedRequestsByCollectorSince(
	collector internal.ObjectID, from, to time.Time,
) ([]*WasteRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"collectorId": collector,
		"status":      StatusCompleted,
		"completedAt": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	cur, err := ms.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeRequests(ctx, cur)
}

// TransitionScope restricts which requests a transition may touch. Exactly
// one of Owner or Collector is set, depending on the acting role.
type TransitionScope struct {
	Owner     internal.ObjectID
	Collector internal.ObjectID
}

func (s TransitionScope) filter() bson.M {
	f := bson.M{}
	if !s.Owner.IsZero() {
		f["ownerId"] = s.Owner
	}
	if !s.Collector.IsZero() {
		// a collector may act on requests assigned to it, or claim an
		// unassigned pending request
		f["$or"] = bson.A{
			bson.M{"collectorId": s.Collector},
			bson.M{"collectorId": bson.M{"$exists": false}},
		}
	}
	return f
}

// TransitionRequest moves a request to the target status if the lifecycle
// table allows it, in a single atomic update filtered on the eligible source
// statuses. Transitioning to completed stamps the completion time; a
// collector-scoped transition claims the request for that collector. The
// earnings amount, when positive, is recorded alongside a completion.
//
// It returns ErrNotFound if the request does not exist inside the scope, and
// a TransitionError if it exists but its current status does not permit the
// change.
func (ms *MongoStorage) TransitionRequest(
	scope TransitionScope, id internal.ObjectID, target RequestStatus, earnings float64,
) (*WasteRequest, error) {
	sources := TransitionSources(target)
	if len(sources) == 0 {
		// the target is not reachable from anywhere (e.g. pending)
		return nil, ms.transitionFailure(scope, id, target)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	set := bson.M{"status": target, "updatedAt": now}
	if target == StatusCompleted {
		set["completedAt"] = now
		if earnings > 0 {
			set["earnings"] = earnings
		}
	}
	if !scope.Collector.IsZero() {
		set["collectorId"] = scope.Collector
	}
	filter := scope.filter()
	filter["_id"] = id
	filter["status"] = bson.M{"$in": sources}

	req := &WasteRequest{}
	err := ms.requests.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, findAfter()).Decode(req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ms.transitionFailure(scope, id, target)
		}
		return nil, err
	}
	return req, nil
}

// CancelRequest is the owner-only convenience wrapper around the
// pending to cancelled transition.
func (ms *MongoStorage) CancelRequest(owner internal.ObjectID, id internal.ObjectID) (*WasteRequest, error) {
	return ms.TransitionRequest(TransitionScope{Owner: owner}, id, StatusCancelled, 0)
}

// StatusCounts returns the number of the owner's requests of the given kind
// currently in each status. Every status of the vocabulary is present in the
// result, absent ones count zero.
func (ms *MongoStorage) StatusCounts(owner internal.ObjectID, kind RequestKind) (map[RequestStatus]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"ownerId": owner, "kind": kind}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := ms.requests.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	counts := make(map[RequestStatus]int, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for cur.Next(ctx) {
		var bucket struct {
			Status RequestStatus `bson:"_id"`
			Count  int           `bson:"count"`
		}
		if err := cur.Decode(&bucket); err != nil {
			return nil, err
		}
		counts[bucket.Status] = bucket.Count
	}
	return counts, cur.Err()
}

// transitionFailure distinguishes a missing (or out-of-scope) request from a
// request whose current status forbids the transition.
func (ms *MongoStorage) transitionFailure(
	scope TransitionScope, id internal.ObjectID, target RequestStatus,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := scope.filter()
	filter["_id"] = id
	req, err := ms.findRequest(ctx, filter)
	if err != nil {
		return err
	}
	return &TransitionError{Current: req.Status, Attempted: target}
}

func (ms *MongoStorage) findRequest(ctx context.Context, filter bson.M) (*WasteRequest, error) {
	req := &WasteRequest{}
	if err := ms.requests.FindOne(ctx, filter).Decode(req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func decodeRequests(ctx context.Context, cur *mongo.Cursor) ([]*WasteRequest, error) {
	defer func() { _ = cur.Close(ctx) }()
	reqs := []*WasteRequest{}
	for cur.Next(ctx) {
		req := &WasteRequest{}
		if err := cur.Decode(req); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, cur.Err()
}

// startOfDay truncates a time to midnight in its location. Request dates are
// compared at day granularity so a request for later today is still valid.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
