// Package api provides the HTTP and WebSocket surface of the waste
// collection backend, with JWT authentication and role based access.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/realtime"
	"github.com/ecocollect/waste-backend/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	log "github.com/sirupsen/logrus"
)

// Config holds the dependencies and settings of the API server.
type Config struct {
	Host   string
	Port   int
	Secret string
	DB     *db.MongoStorage
	// Bus is the in-process event bus where handlers publish lifecycle
	// events. It may be nil, in which case no events are published.
	Bus *realtime.Bus
	// Hub is the WebSocket hub that pushes events to connected clients. It
	// may be nil, in which case the /ws endpoint is not registered.
	Hub *realtime.Hub
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db        *db.MongoStorage
	auth      *jwtauth.JWTAuth
	host      string
	port      int
	router    *chi.Mux
	secret    string
	bus       *realtime.Bus
	hub       *realtime.Hub
	validator *validator.Validator
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		db:        conf.DB,
		auth:      jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:      conf.Host,
		port:      conf.Port,
		secret:    conf.Secret,
		bus:       conf.Bus,
		hub:       conf.Hub,
		validator: validator.New(),
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.WithError(err).Fatal("failed to start the API server")
		}
	}()
}

// Router returns the router with all routes registered, for tests.
func (a *API) Router() http.Handler {
	return a.initRouter()
}

// routeLog logs a registered route.
func routeLog(method, path string) {
	log.WithFields(log.Fields{"method": method, "path": path}).Info("new route")
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// refresh the token
		routeLog("POST", authRefreshEndpoint)
		r.Post(authRefreshEndpoint, a.refreshTokenHandler)
		// get and update the account information
		routeLog("GET", usersMeEndpoint)
		r.Get(usersMeEndpoint, a.userInfoHandler)
		routeLog("PUT", usersMeEndpoint)
		r.Put(usersMeEndpoint, a.updateUserInfoHandler)

		// owner routes, for residents and businesses
		r.Group(func(r chi.Router) {
			r.Use(a.requireOwner)
			routeLog("POST", wasteRequestsEndpoint)
			r.With(a.validateInputModel(apicommon.RequestInfo{}), a.InputValidator).
				Post(wasteRequestsEndpoint, a.createRequestHandler)
			routeLog("GET", wasteRequestsEndpoint)
			r.Get(wasteRequestsEndpoint, a.listRequestsHandler)
			routeLog("GET", wasteRequestStatusCountsEndpoint)
			r.Get(wasteRequestStatusCountsEndpoint, a.requestStatusCountsHandler)
			routeLog("GET", wasteRequestEndpoint)
			r.Get(wasteRequestEndpoint, a.requestInfoHandler)
			routeLog("PATCH", wasteRequestStatusEndpoint)
			r.Patch(wasteRequestStatusEndpoint, a.ownerTransitionRequestHandler)
			routeLog("PUT", wasteRequestCancelEndpoint)
			r.Put(wasteRequestCancelEndpoint, a.cancelRequestHandler)
		})

		// business routes
		r.Group(func(r chi.Router) {
			r.Use(a.requireRole(db.BusinessRole))
			routeLog("POST", businessBulkRequestsEndpoint)
			r.With(a.validateInputModel(apicommon.RequestInfo{}), a.InputValidator).
				Post(businessBulkRequestsEndpoint, a.createBulkRequestHandler)
			routeLog("GET", businessBulkRequestsEndpoint)
			r.Get(businessBulkRequestsEndpoint, a.listBulkRequestsHandler)
			routeLog("GET", businessBulkRequestStatusCountsEndpoint)
			r.Get(businessBulkRequestStatusCountsEndpoint, a.bulkRequestStatusCountsHandler)
			routeLog("POST", businessScheduledPickupsEndpoint)
			r.With(a.validateInputModel(apicommon.ScheduleInfo{}), a.InputValidator).
				Post(businessScheduledPickupsEndpoint, a.createScheduledPickupHandler)
			routeLog("GET", businessScheduledPickupsEndpoint)
			r.Get(businessScheduledPickupsEndpoint, a.listScheduledPickupsHandler)
			routeLog("PATCH", businessScheduledPickupActiveEndpoint)
			r.Patch(businessScheduledPickupActiveEndpoint, a.toggleScheduledPickupHandler)
			// expenses
			routeLog("POST", expensesEndpoint)
			r.With(a.validateInputModel(apicommon.ExpenseInfo{}), a.InputValidator).
				Post(expensesEndpoint, a.createExpenseHandler)
			routeLog("GET", expensesEndpoint)
			r.Get(expensesEndpoint, a.listExpensesHandler)
			routeLog("GET", expensesAnalyticsEndpoint)
			r.Get(expensesAnalyticsEndpoint, a.expenseAnalyticsHandler)
			routeLog("GET", expenseEndpoint)
			r.Get(expenseEndpoint, a.expenseInfoHandler)
			routeLog("PUT", expenseEndpoint)
			r.With(a.validateInputModel(apicommon.ExpenseInfo{}), a.InputValidator).
				Put(expenseEndpoint, a.updateExpenseHandler)
			routeLog("DELETE", expenseEndpoint)
			r.Delete(expenseEndpoint, a.deleteExpenseHandler)
		})

		// collector routes
		r.Group(func(r chi.Router) {
			r.Use(a.requireRole(db.CollectorRole))
			routeLog("GET", collectorAssignedRequestsEndpoint)
			r.Get(collectorAssignedRequestsEndpoint, a.collectorAssignedRequestsHandler)
			routeLog("GET", collectorAvailableRequestsEndpoint)
			r.Get(collectorAvailableRequestsEndpoint, a.collectorAvailableRequestsHandler)
			routeLog("GET", collectorRoutesEndpoint)
			r.Get(collectorRoutesEndpoint, a.collectorAssignedRequestsHandler)
			routeLog("GET", collectorHistoryEndpoint)
			r.Get(collectorHistoryEndpoint, a.collectorHistoryHandler)
			routeLog("PUT", collectorLocationEndpoint)
			r.Put(collectorLocationEndpoint, a.collectorLocationHandler)
			routeLog("GET", collectorProfileEndpoint)
			r.Get(collectorProfileEndpoint, a.collectorProfileHandler)
			routeLog("PUT", collectorProfileEndpoint)
			r.Put(collectorProfileEndpoint, a.updateCollectorProfileHandler)
			routeLog("GET", collectorAnalyticsEndpoint)
			r.Get(collectorAnalyticsEndpoint, a.collectorAnalyticsHandler)
			routeLog("GET", collectorAnalyticsExportEndpoint)
			r.Get(collectorAnalyticsExportEndpoint, a.collectorAnalyticsExportHandler)
			routeLog("PATCH", collectorRequestStatusEndpoint)
			r.Patch(collectorRequestStatusEndpoint, a.collectorTransitionRequestHandler)
			// create tip
			routeLog("POST", wasteTipsEndpoint)
			r.With(a.validateInputModel(apicommon.TipInfo{}), a.InputValidator).
				Post(wasteTipsEndpoint, a.createTipHandler)
		})
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.WithError(err).Warn("failed to write ping response")
			}
		})
		// register user
		routeLog("POST", authRegisterEndpoint)
		r.Post(authRegisterEndpoint, a.registerHandler)
		// login
		routeLog("POST", authLoginEndpoint)
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// disposal tips
		routeLog("GET", wasteTipsEndpoint)
		r.Get(wasteTipsEndpoint, a.listTipsHandler)
		// websocket notifications
		if a.hub != nil {
			routeLog("GET", wsEndpoint)
			r.Get(wsEndpoint, a.websocketHandler)
		}
	})
	a.router = r
	return r
}
