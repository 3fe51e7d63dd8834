package apicommon

//revive:disable:max-public-structs

import (
	"time"

	"github.com/ecocollect/waste-backend/db"
)

// UserInfo carries the register and login request payloads.
type UserInfo struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Phone    string       `json:"phone,omitempty"`
	Role     string       `json:"role,omitempty"`
	Location *db.GeoPoint `json:"location,omitempty"`
}

// LoginResponse is returned after a successful register, login or refresh.
type LoginResponse struct {
	Token    string    `json:"token"`
	Expirity time.Time `json:"expirity"`
	User     *db.User  `json:"user,omitempty"`
}

// UserProfileUpdate carries the mutable account fields.
type UserProfileUpdate struct {
	Name     string       `json:"name"`
	Phone    string       `json:"phone,omitempty"`
	Location *db.GeoPoint `json:"location,omitempty"`
}

// RequestInfo carries a new waste-collection request. The date accepts
// RFC3339 or plain YYYY-MM-DD.
type RequestInfo struct {
	Date        string `json:"date" validate:"required"`
	TimeSlot    string `json:"timeSlot" validate:"required"`
	WasteType   string `json:"wasteType" validate:"required,oneof=biodegradable non-biodegradable recyclable"`
	Quantity    int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Address     string `json:"address" validate:"required"`
	Description string `json:"description,omitempty"`
}

// RequestStatusUpdate carries a lifecycle transition. Earnings is only
// meaningful when the target status is completed.
type RequestStatusUpdate struct {
	Status   string  `json:"status"`
	Earnings float64 `json:"earnings,omitempty"`
}

// RequestList wraps a list of requests.
type RequestList struct {
	Requests []*db.WasteRequest `json:"requests"`
}

// StatusCounts maps every lifecycle status to the number of requests in it.
type StatusCounts struct {
	Counts map[db.RequestStatus]int `json:"counts"`
}

// ScheduleInfo carries a new recurring pickup. StartDate accepts RFC3339 or
// plain YYYY-MM-DD.
type ScheduleInfo struct {
	Frequency  string `json:"frequency" validate:"required,oneof=weekly monthly"`
	DayOfWeek  string `json:"dayOfWeek,omitempty"`
	DayOfMonth int    `json:"dayOfMonth,omitempty"`
	TimeSlot   string `json:"timeSlot" validate:"required,timeofday"`
	WasteType  string `json:"wasteType" validate:"required,oneof=biodegradable non-biodegradable recyclable"`
	Address    string `json:"address" validate:"required"`
	StartDate  string `json:"startDate" validate:"required"`
}

// ScheduleActiveUpdate toggles a recurring pickup on or off.
type ScheduleActiveUpdate struct {
	Active bool `json:"active"`
}

// ScheduleList wraps a list of recurring pickups.
type ScheduleList struct {
	Pickups []*db.ScheduledPickup `json:"pickups"`
}

// ExpenseInfo carries a new or updated business expense.
type ExpenseInfo struct {
	RequestID   string  `json:"requestId,omitempty"`
	Amount      float64 `json:"amount" validate:"min=0"`
	Category    string  `json:"category" validate:"required,oneof=collection disposal recycling other"`
	Date        string  `json:"date,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ExpenseList wraps a list of expenses.
type ExpenseList struct {
	Expenses []*db.Expense `json:"expenses"`
}

// LocationUpdate carries a collector position fix.
type LocationUpdate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CollectorProfileUpdate carries the mutable collector profile fields.
type CollectorProfileUpdate struct {
	VehicleType             string                     `json:"vehicleType"`
	VehicleNumber           string                     `json:"vehicleNumber"`
	WorkingHours            db.WorkingHours            `json:"workingHours"`
	ServiceArea             db.ServiceArea             `json:"serviceArea"`
	NotificationPreferences db.NotificationPreferences `json:"notificationPreferences"`
}

// HistoryResponse is a page of completed pickups.
type HistoryResponse struct {
	Requests    []*db.WasteRequest `json:"requests"`
	Total       int64              `json:"total"`
	Pages       int64              `json:"pages"`
	CurrentPage int                `json:"currentPage"`
}

// DailyPickups is one bucket of the collector analytics time series.
type DailyPickups struct {
	Date     string  `json:"date"`
	Pickups  int     `json:"pickups"`
	Earnings float64 `json:"earnings"`
}

// CollectorAnalytics aggregates the completed pickups of a collector over
// the requested window.
type CollectorAnalytics struct {
	TotalPickups        int            `json:"totalPickups"`
	TotalEarnings       float64        `json:"totalEarnings"`
	AverageDailyPickups float64        `json:"averageDailyPickups"`
	OnTimePickups       int            `json:"onTimePickups"`
	AverageDelayMinutes float64        `json:"averageDelayMinutes"`
	PickupsOverTime     []DailyPickups `json:"pickupsOverTime"`
}

// TipInfo carries a new disposal tip.
type TipInfo struct {
	Category string `json:"category" validate:"required,oneof=biodegradable non-biodegradable recyclable"`
	Content  string `json:"content" validate:"required"`
}

// TipList wraps a list of tips.
type TipList struct {
	Tips []*db.WasteTip `json:"tips"`
}
