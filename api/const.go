package api

import "time"

const (
	// jwtExpiration is the validity period of issued tokens.
	jwtExpiration = 24 * time.Hour
	// passwordSalt is the salt used for password hashing.
	passwordSalt = "ecocollect-pepper"
	// onTimeThreshold is the maximum lateness for a completed pickup to
	// still count as on time.
	onTimeThreshold = 15 * time.Minute
	// defaultHistoryPage and defaultHistoryLimit are the pagination
	// defaults of the collector history endpoint.
	defaultHistoryPage  = 1
	defaultHistoryLimit = 10
)

// API endpoints
const (
	authRegisterEndpoint = "/auth/register"
	authLoginEndpoint    = "/auth/login"
	authRefreshEndpoint  = "/auth/refresh"
	usersMeEndpoint      = "/users/me"

	wasteRequestsEndpoint            = "/waste-requests"
	wasteRequestStatusCountsEndpoint = "/waste-requests/status-counts"
	wasteRequestEndpoint             = "/waste-requests/{requestId}"
	wasteRequestStatusEndpoint       = "/waste-requests/{requestId}/status"
	wasteRequestCancelEndpoint       = "/waste-requests/{requestId}/cancel"

	businessBulkRequestsEndpoint            = "/business/bulk-requests"
	businessBulkRequestStatusCountsEndpoint = "/business/bulk-requests/status-counts"
	businessScheduledPickupsEndpoint        = "/business/scheduled-pickups"
	businessScheduledPickupActiveEndpoint   = "/business/scheduled-pickups/{pickupId}/active"

	expensesEndpoint          = "/expenses"
	expensesAnalyticsEndpoint = "/expenses/analytics"
	expenseEndpoint           = "/expenses/{expenseId}"

	collectorAssignedRequestsEndpoint  = "/collector/assigned-requests"
	collectorAvailableRequestsEndpoint = "/collector/available-requests"
	collectorRoutesEndpoint            = "/collector/routes"
	collectorHistoryEndpoint           = "/collector/history"
	collectorLocationEndpoint          = "/collector/location"
	collectorProfileEndpoint           = "/collector/profile"
	collectorAnalyticsEndpoint         = "/collector/analytics"
	collectorAnalyticsExportEndpoint   = "/collector/analytics/export"
	collectorRequestStatusEndpoint     = "/collector/requests/{requestId}/status"

	wasteTipsEndpoint = "/waste-tips"

	wsEndpoint = "/ws"
)
