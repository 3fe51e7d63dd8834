package db

import "time"

// defaultTimeout is the timeout used for every storage operation.
const defaultTimeout = 10 * time.Second

const (
	// account roles
	ResidentRole  Role = "resident"
	BusinessRole  Role = "business"
	CollectorRole Role = "collector"
	// request owner kinds
	ResidentOwner OwnerKind = "resident"
	BusinessOwner OwnerKind = "business"
	// request kinds
	RegularRequest RequestKind = "regular"
	BulkRequest    RequestKind = "bulk"
	// request statuses
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
	// waste types
	WasteBiodegradable    WasteType = "biodegradable"
	WasteNonBiodegradable WasteType = "non-biodegradable"
	WasteRecyclable       WasteType = "recyclable"
	// expense categories
	ExpenseCollection ExpenseCategory = "collection"
	ExpenseDisposal   ExpenseCategory = "disposal"
	ExpenseRecycling  ExpenseCategory = "recycling"
	ExpenseOther      ExpenseCategory = "other"
	// scheduled pickup frequencies
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// validRoles is a map that contains the valid account roles
var validRoles = map[Role]bool{
	ResidentRole:  true,
	BusinessRole:  true,
	CollectorRole: true,
}

// IsValidRole function checks if the account role is valid
func IsValidRole(role Role) bool {
	return validRoles[role]
}

// validWasteTypes is a map that contains the valid waste types
var validWasteTypes = map[WasteType]bool{
	WasteBiodegradable:    true,
	WasteNonBiodegradable: true,
	WasteRecyclable:       true,
}

// IsValidWasteType function checks if the waste type is valid
func IsValidWasteType(wt WasteType) bool {
	return validWasteTypes[wt]
}

// validExpenseCategories is a map that contains the valid expense categories
var validExpenseCategories = map[ExpenseCategory]bool{
	ExpenseCollection: true,
	ExpenseDisposal:   true,
	ExpenseRecycling:  true,
	ExpenseOther:      true,
}

// IsValidExpenseCategory function checks if the expense category is valid
func IsValidExpenseCategory(ec ExpenseCategory) bool {
	return validExpenseCategories[ec]
}

// AllStatuses contains every request status, in the order reported by
// status-count aggregates.
var AllStatuses = []RequestStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

// transitionSources maps every reachable target status to the set of statuses
// a request may hold immediately before the transition. Statuses missing from
// the map (pending) are never a valid target. rejected, completed and
// cancelled are terminal.
var transitionSources = map[RequestStatus][]RequestStatus{
	StatusAccepted:  {StatusPending},
	StatusRejected:  {StatusPending},
	StatusCancelled: {StatusPending},
	StatusCompleted: {StatusAccepted},
}

// CanTransition function checks if a request may move from one status to
// another according to the lifecycle table.
func CanTransition(from, to RequestStatus) bool {
	for _, s := range transitionSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

// TransitionSources returns the statuses a request must currently hold for the
// given target to be reachable. The returned slice must not be mutated.
func TransitionSources(to RequestStatus) []RequestStatus {
	return transitionSources[to]
}

// IsValidStatus function checks if the request status is part of the lifecycle
// vocabulary.
func IsValidStatus(s RequestStatus) bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// validDaysOfWeek is a map that contains the valid week days for weekly
// scheduled pickups
var validDaysOfWeek = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// IsValidDayOfWeek function checks if the given day is a valid week day
func IsValidDayOfWeek(day string) bool {
	return validDaysOfWeek[day]
}
