package db

import (
	"time"

	"github.com/ecocollect/waste-backend/internal"
)

type (
	// Role is the closed set of account roles.
	Role string
	// OwnerKind tags a waste request with the kind of account that owns it.
	OwnerKind string
	// RequestKind distinguishes regular waste requests from bulk ones.
	RequestKind string
	// RequestStatus is the lifecycle status of a waste request.
	RequestStatus string
	// WasteType classifies the waste to be collected.
	WasteType string
	// ExpenseCategory classifies a business expense.
	ExpenseCategory string
	// Frequency is the recurrence kind of a scheduled pickup.
	Frequency string
)

// GeoPoint is a GeoJSON point as stored by MongoDB, coordinates are
// [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint returns a GeoJSON point for the given coordinates.
func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{longitude, latitude}}
}

// User is an account of any role. The role is immutable after creation.
type User struct {
	ID        internal.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string            `json:"name" bson:"name"`
	Email     string            `json:"email" bson:"email"`
	Password  string            `json:"-" bson:"password"`
	Phone     string            `json:"phone" bson:"phone"`
	Role      Role              `json:"role" bson:"role"`
	Location  GeoPoint          `json:"location" bson:"location"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// WasteRequest is a waste-collection request, regular or bulk. Both kinds
// share the same lifecycle; the bulk variant is business-owned and carries a
// quantity, while regular requests belong to residents and businesses alike.
type WasteRequest struct {
	ID          internal.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID     internal.ObjectID `json:"ownerId" bson:"ownerId"`
	OwnerKind   OwnerKind         `json:"ownerKind" bson:"ownerKind"`
	Kind        RequestKind       `json:"kind" bson:"kind"`
	CollectorID internal.ObjectID `json:"collectorId,omitempty" bson:"collectorId,omitempty"`
	Date        time.Time         `json:"date" bson:"date"`
	TimeSlot    string            `json:"timeSlot" bson:"timeSlot"`
	WasteType   WasteType         `json:"wasteType" bson:"wasteType"`
	Quantity    int               `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Address     string            `json:"address" bson:"address"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Status      RequestStatus     `json:"status" bson:"status"`
	Earnings    float64           `json:"earnings,omitempty" bson:"earnings,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Bulk reports whether the request is a bulk one.
func (r *WasteRequest) Bulk() bool {
	return r.Kind == BulkRequest
}

// ScheduledPickup is a recurring pickup configured by a business. It has no
// lifecycle, only an active flag.
type ScheduledPickup struct {
	ID         internal.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID internal.ObjectID `json:"businessId" bson:"businessId"`
	Frequency  Frequency         `json:"frequency" bson:"frequency"`
	DayOfWeek  string            `json:"dayOfWeek,omitempty" bson:"dayOfWeek,omitempty"`
	DayOfMonth int               `json:"dayOfMonth,omitempty" bson:"dayOfMonth,omitempty"`
	TimeSlot   string            `json:"timeSlot" bson:"timeSlot"`
	WasteType  WasteType         `json:"wasteType" bson:"wasteType"`
	Address    string            `json:"address" bson:"address"`
	StartDate  time.Time         `json:"startDate" bson:"startDate"`
	Active     bool              `json:"active" bson:"active"`
	CreatedAt  time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Expense is a business expense linked to a bulk waste request.
type Expense struct {
	ID          internal.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID  internal.ObjectID `json:"businessId" bson:"businessId"`
	RequestID   internal.ObjectID `json:"requestId" bson:"requestId"`
	Amount      float64           `json:"amount" bson:"amount"`
	Category    ExpenseCategory   `json:"category" bson:"category"`
	Date        time.Time         `json:"date" bson:"date"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// WorkingHours is the daily working window of a collector.
type WorkingHours struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// ServiceArea is the area a collector serves, a radius in kilometers around
// its current location plus optional preferred zones.
type ServiceArea struct {
	Radius         int      `json:"radius" bson:"radius"`
	PreferredZones []string `json:"preferredZones,omitempty" bson:"preferredZones,omitempty"`
}

// NotificationPreferences holds the push notification toggles of a collector.
type NotificationPreferences struct {
	NewRequests     bool `json:"newRequests" bson:"newRequests"`
	RouteUpdates    bool `json:"routeUpdates" bson:"routeUpdates"`
	EarningsUpdates bool `json:"earningsUpdates" bson:"earningsUpdates"`
}

// PerformanceMetrics are the cumulative counters of a collector, updated on
// every completed pickup and recomputed into an efficiency score.
type PerformanceMetrics struct {
	TotalCollections     int     `json:"totalCollections" bson:"totalCollections"`
	TotalEarnings        float64 `json:"totalEarnings" bson:"totalEarnings"`
	OnTimeCollections    int     `json:"onTimeCollections" bson:"onTimeCollections"`
	CustomerSatisfaction float64 `json:"customerSatisfaction" bson:"customerSatisfaction"`
	EfficiencyScore      float64 `json:"efficiencyScore" bson:"efficiencyScore"`
}

// CollectorProfile is the one-to-one extension of a collector account.
type CollectorProfile struct {
	ID              internal.ObjectID       `json:"id" bson:"_id,omitempty"`
	UserID          internal.ObjectID       `json:"userId" bson:"userId"`
	VehicleType     string                  `json:"vehicleType" bson:"vehicleType"`
	VehicleNumber   string                  `json:"vehicleNumber" bson:"vehicleNumber"`
	WorkingHours    WorkingHours            `json:"workingHours" bson:"workingHours"`
	ServiceArea     ServiceArea             `json:"serviceArea" bson:"serviceArea"`
	Preferences     NotificationPreferences `json:"notificationPreferences" bson:"notificationPreferences"`
	CurrentLocation GeoPoint                `json:"currentLocation" bson:"currentLocation"`
	Metrics         PerformanceMetrics      `json:"performanceMetrics" bson:"performanceMetrics"`
	Active          bool                    `json:"active" bson:"active"`
	CreatedAt       time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt" bson:"updatedAt"`
}

// WasteTip is a disposal tip, globally readable.
type WasteTip struct {
	ID        internal.ObjectID `json:"id" bson:"_id,omitempty"`
	Category  WasteType         `json:"category" bson:"category"`
	Content   string            `json:"content" bson:"content"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// MonthlyTotal is one bucket of the expense analytics monthly series.
type MonthlyTotal struct {
	Month string  `json:"month" bson:"month"`
	Total float64 `json:"totalAmount" bson:"totalAmount"`
}

// CategoryTotal is one bucket of the expense analytics category breakdown.
type CategoryTotal struct {
	Category ExpenseCategory `json:"category" bson:"category"`
	Total    float64         `json:"totalAmount" bson:"totalAmount"`
}

// ExpenseAnalytics groups the expense aggregates of a business.
type ExpenseAnalytics struct {
	MonthlyTotals  []MonthlyTotal  `json:"monthlyTotals"`
	CategoryTotals []CategoryTotal `json:"categoryTotals"`
}
